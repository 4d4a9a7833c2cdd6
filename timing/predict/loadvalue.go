package predict

import (
	"sort"

	"github.com/sjolsen/mipssim/emu"
)

// lvfCapacity bounds the number of distinct loaded values the histogram
// can track, per §4.9.
const lvfCapacity = 5200

// OverflowFault reports the load-value histogram saturating: a distinct
// value arrived with the table already at capacity. This is a capacity
// overflow per §7 — fatal and unrecoverable — so it propagates as a panic
// rather than folding into StepResult, the same way emu.MemoryFault does.
type OverflowFault struct{}

func (OverflowFault) Error() string { return "load-value histogram overflow" }

type lvfEntry struct {
	value uint32
	count uint64
}

// TopValue is one row of a frequency-ranked histogram report.
type TopValue struct {
	Value uint32
	Count uint64
}

// LoadValueHistogram tracks the frequency of each distinct word loaded by
// LW. entries stays sorted descending by value so a lookup or insertion
// point can be found by binary search; frequency ranking is computed only
// on demand, in Top.
type LoadValueHistogram struct {
	emu.BaseObserver

	entries []lvfEntry
}

// NewLoadValueHistogram creates an empty histogram.
func NewLoadValueHistogram() *LoadValueHistogram {
	return &LoadValueHistogram{entries: make([]lvfEntry, 0, lvfCapacity)}
}

// OnLoadedValue bumps value's count, inserting a new entry if value has
// not been seen before. It panics with OverflowFault if a new distinct
// value arrives once the table is already at capacity.
func (h *LoadValueHistogram) OnLoadedValue(value uint32) {
	i, found := h.search(value)
	if found {
		h.entries[i].count++
		return
	}
	if len(h.entries) >= lvfCapacity {
		panic(OverflowFault{})
	}
	h.entries = append(h.entries, lvfEntry{})
	copy(h.entries[i+1:], h.entries[i:])
	h.entries[i] = lvfEntry{value: value, count: 1}
}

// search returns the index at which value is found, or the index at
// which it must be inserted to keep entries sorted descending by value.
func (h *LoadValueHistogram) search(value uint32) (index int, found bool) {
	lo, hi := 0, len(h.entries)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case h.entries[mid].value > value:
			lo = mid + 1
		case h.entries[mid].value < value:
			hi = mid
		default:
			return mid, true
		}
	}
	return lo, false
}

// UniqueCount returns the number of distinct values seen.
func (h *LoadValueHistogram) UniqueCount() int {
	return len(h.entries)
}

// Top returns up to n entries ranked by descending frequency, breaking
// ties by descending value.
func (h *LoadValueHistogram) Top(n int) []TopValue {
	ranked := make([]lvfEntry, len(h.entries))
	copy(ranked, h.entries)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].value > ranked[j].value
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	top := make([]TopValue, n)
	for i := 0; i < n; i++ {
		top[i] = TopValue{Value: ranked[i].value, Count: ranked[i].count}
	}
	return top
}
