//go:build darwin || linux

package jit

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func osPageSize() int { return unix.Getpagesize() }

// mmapExec copies buf into a fresh anonymous mapping, then transitions that
// mapping from PROT_READ|PROT_WRITE to PROT_READ|PROT_EXEC — the region is
// never simultaneously writable and executable, satisfying the spec's W⊕X
// invariant at the OS level, not just in our own type system.
func mmapExec(buf []byte) ([]byte, error) {
	size := len(buf)
	if size == 0 {
		size = osPageSize()
	}
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("jit: mmap: %w", err)
	}
	copy(mem, buf)
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		unix.Munmap(mem)
		return nil, fmt.Errorf("jit: mprotect: %w", err)
	}
	return mem, nil
}

func munmap(mem []byte) error {
	return unix.Munmap(mem)
}

const mmapSupported = true
