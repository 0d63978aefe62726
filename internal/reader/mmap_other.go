//go:build !unix

package reader

import (
	"fmt"
	"os"
)

// mmapFile falls back to a plain read on platforms without mmap support.
// Same signature as the unix variant so OpenMmap needs no build tags of
// its own.
func mmapFile(filename string) ([]byte, func(), error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("reader: read %s: %w", filename, err)
	}
	return data, func() {}, nil
}
