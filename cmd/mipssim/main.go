// Command mipssim runs a MIPS-I binary through the instrumented
// interpreter and prints a termination report covering whichever
// micro-architectural observers are enabled.
//
// Usage:
//
//	mipssim [flags] <binary>
//
// Flags:
//
//	-no-profile   Disable the static instruction-mix/cycle profiler
//	-no-pipeline  Disable the pipeline accountant
//	-no-cache     Disable the data cache simulator
//	-no-predict   Disable the BTB/LAP/LVF predictors
//	-trace        Write a per-instruction disassembly line to stderr
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sjolsen/mipssim/driver"
	"github.com/sjolsen/mipssim/emu"
	"github.com/sjolsen/mipssim/timing/cache"
	"github.com/sjolsen/mipssim/timing/pipeline"
	"github.com/sjolsen/mipssim/timing/predict"
	"github.com/sjolsen/mipssim/timing/profile"
)

var (
	noProfile  = flag.Bool("no-profile", false, "Disable the static instruction-mix/cycle profiler")
	noPipeline = flag.Bool("no-pipeline", false, "Disable the pipeline accountant")
	noCache    = flag.Bool("no-cache", false, "Disable the data cache simulator")
	noPredict  = flag.Bool("no-predict", false, "Disable the BTB/LAP/LVF predictors")
	trace      = flag.Bool("trace", false, "Write a per-instruction disassembly line to stderr")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mipssim [flags] <binary>\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(-1)
	}
	path := flag.Arg(0)

	fmt.Println("CS3339 MIPS Interpreter")
	fmt.Printf("running %s\n\n", path)

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(-1)
	}
	defer f.Close()

	mem, entry, err := driver.Load(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(-1)
	}

	config := driver.DefaultConfig()
	config.EnableProfile = !*noProfile
	config.EnablePipeline = !*noPipeline
	config.EnableCache = !*noCache
	config.EnablePredict = !*noPredict
	config.Trace = *trace

	var (
		prof     *profile.Profiler
		pipe     *pipeline.Accountant
		cacheObs *cache.Observer
		btb      *predict.BTB
		lap      *predict.LoadAddressPredictor
		lvf      *predict.LoadValueHistogram
	)

	opts := []emu.EmulatorOption{
		emu.WithConsole(driver.NewConsole()),
	}
	if config.Trace {
		opts = append(opts, emu.WithTrace(os.Stderr))
	}
	if config.EnableProfile {
		prof = profile.New()
		opts = append(opts, emu.WithObserver(prof))
	}
	if config.EnablePipeline {
		pipe = pipeline.New()
		opts = append(opts, emu.WithObserver(pipe))
	}
	if config.EnableCache {
		cacheObs = cache.NewObserver()
		opts = append(opts, emu.WithObserver(cacheObs))
	}
	if config.EnablePredict {
		btb = predict.NewBTB()
		lap = predict.NewLoadAddressPredictor()
		lvf = predict.NewLoadValueHistogram()
		opts = append(opts, emu.WithObserver(btb), emu.WithObserver(lap), emu.WithObserver(lvf))
	}

	e := emu.NewEmulator(mem, entry, opts...)

	exitCode := runChecked(e)

	fmt.Printf("program finished at pc = 0x%08x  (%d instructions executed)\n",
		e.RegFile().PC, e.InstructionCount())

	if prof != nil {
		printProfileReport(prof.Stats())
	}
	if pipe != nil {
		printPipelineReport(pipe.Stats())
	}
	if cacheObs != nil {
		printCacheReport(cacheObs.Cache.Stats())
	}
	if btb != nil {
		printPredictReport(btb.Stats(), lap.Stats(), lvf)
	}

	os.Exit(exitCode)
}

// runChecked runs e to completion, reporting a MemoryFault (and any other
// unrecovered panic) the same way the architectural traps are reported,
// and returns the process exit code: 0 for a clean halt, -1 otherwise.
// Per §7, a memory-protection abort skips the termination report
// entirely, so it exits directly rather than returning.
func runChecked(e *emu.Emulator) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "%v\n", r)
			os.Exit(-1)
		}
	}()
	if err := e.Run(); err != nil {
		return -1
	}
	return 0
}

func printProfileReport(s profile.Stats) {
	fmt.Printf("\n--- instruction mix & static cycles ---\n")
	fmt.Printf("R-type: %d  I-type: %d  J-type: %d\n", s.ClassR, s.ClassI, s.ClassJ)
	fmt.Printf("static cycles: %d\n", s.Cycles)
	fmt.Printf("$zero reads: %d\n", s.ZeroReads)
	fmt.Printf("producer-consumer distance: 1-ago %d  2-ago %d  3-ago %d\n",
		s.OneAgo, s.TwoAgo, s.ThreeAgo)
}

func printPipelineReport(s pipeline.Stats) {
	fmt.Printf("\n--- pipeline accounting ---\n")
	fmt.Printf("cycles: %d  bubbles: %d  flushes: %d\n", s.Cycles, s.Bubbles, s.Flushes)
}

func printCacheReport(s cache.Stats) {
	fmt.Printf("\n--- data cache ---\n")
	fmt.Printf("loads: %d (misses %d, %.1f%% hit)\n", s.Loads, s.LoadMisses, s.LoadHitRatio())
	fmt.Printf("stores: %d (misses %d, %.1f%% hit)\n", s.Stores, s.StoreMisses, s.StoreHitRatio())
	fmt.Printf("write-backs: %d (%.2f%% of stores)\n", s.WriteBacks, s.WriteBacksPerStore())
	fmt.Printf("overall hit ratio: %.1f%%\n", s.OverallHitRatio())
}

func printPredictReport(btbStats predict.BTBStats, lapStats predict.LAPStats, lvf *predict.LoadValueHistogram) {
	fmt.Printf("\n--- predictors ---\n")
	fmt.Printf("BTB: %d accesses, %.1f%% hit\n", btbStats.Accesses, btbStats.HitRatio())
	fmt.Printf("LAP: %d accesses, %.1f%% hit\n", lapStats.Accesses, lapStats.HitRatio())
	fmt.Printf("LVF: %d unique values, top 10 by frequency:\n", lvf.UniqueCount())
	for _, top := range lvf.Top(10) {
		fmt.Printf("  0x%08x: %d\n", top.Value, top.Count)
	}
}
