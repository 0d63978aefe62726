//go:build unix

package reader

import (
	"fmt"
	"os"
	"syscall"
)

// mmapFile memory-maps a file for reading, letting OpenMmap hand the DOM
// parser a single contiguous byte range for very large files instead of
// paging it through BufferedReader's block reassembly.
func mmapFile(filename string) ([]byte, func(), error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("reader: open %s: %w", filename, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("reader: stat %s: %w", filename, err)
	}

	size := stat.Size()
	if size == 0 {
		return []byte{}, func() { f.Close() }, nil
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("reader: mmap %s: %w", filename, err)
	}

	cleanup := func() {
		_ = syscall.Munmap(data)
		f.Close()
	}
	return data, cleanup, nil
}
