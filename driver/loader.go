package driver

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/sjolsen/mipssim/bits"
	"github.com/sjolsen/mipssim/emu"
)

// hostIsLittleEndian probes the host's native byte order the same way
// the original's `c = 1; little_endian = *((char *)&c);` does, without
// resorting to unsafe pointer casts.
func hostIsLittleEndian() bool {
	return binary.NativeEndian.Uint16([]byte{1, 0}) == 1
}

// readWord reads one 4-byte field in the file's on-disk layout
// (big-endian), byte-swapping the host's native-order read on a
// little-endian host — matching the original's fread-then-Convert.
func readWord(r io.Reader, littleEndianHost bool) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	value := binary.NativeEndian.Uint32(buf[:])
	if littleEndianHost {
		value = bits.ByteSwap(value)
	}
	return value, nil
}

// Load reads the flat binary format from r — a 4-byte instruction count,
// a 4-byte entry address, then count 4-byte instructions, all
// big-endian on disk — and returns a populated Memory and the entry PC.
func Load(r io.Reader) (mem *emu.Memory, entry uint32, err error) {
	littleEndianHost := hostIsLittleEndian()

	icount, err := readWord(r, littleEndianHost)
	if err != nil {
		return nil, 0, fmt.Errorf("could not read instruction count: %w", err)
	}
	start, err := readWord(r, littleEndianHost)
	if err != nil {
		return nil, 0, fmt.Errorf("could not read entry address: %w", err)
	}

	instructions := make([]uint32, icount)
	for i := range instructions {
		word, err := readWord(r, littleEndianHost)
		if err != nil {
			return nil, 0, fmt.Errorf("could not read instruction %d of %d: %w", i, icount, err)
		}
		instructions[i] = word
	}

	return emu.NewMemory(instructions), start, nil
}
