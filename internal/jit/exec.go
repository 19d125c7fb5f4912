package jit

import (
	"errors"
	"unsafe"
)

// ErrUnsupportedArch is returned by Branch when the host cannot safely jump
// into JIT-compiled machine code (no cache-maintenance or mmap support was
// compiled in for this target).
var ErrUnsupportedArch = errors.New("jit: branching into the region is unsupported on this build")

// Executable is a sealed JIT region: read+execute only, never writable again.
type Executable struct {
	mem []byte
}

// Seal finalizes w: it copies the written prefix into a fresh mapping,
// transitions that mapping Writable -> Executable (mmap RW, then mprotect
// RX, so the two states never overlap), performs the data-cache-clean +
// instruction-cache-invalidate + barrier sequence over the written range,
// and returns the resulting Executable. w must not be used again afterward.
func (w *Writable) Seal() (*Executable, error) {
	mem, err := mmapExec(w.Bytes())
	if err != nil {
		return nil, err
	}
	if cacheCtlSupported && len(mem) > 0 {
		flushInstructionCache(unsafe.Pointer(&mem[0]), len(mem))
	}
	return &Executable{mem: mem}, nil
}

// Close releases the underlying mapping.
func (e *Executable) Close() error {
	if e.mem == nil {
		return nil
	}
	mem := e.mem
	e.mem = nil
	return munmap(mem)
}

// Len reports the size of the sealed mapping.
func (e *Executable) Len() int { return len(e.mem) }

// jitFunc is the calling convention Branch uses to enter the region: a
// single machine-word argument (the platform's first integer argument
// register) in, a single machine-word result (the first return register)
// out. Anything the loaded code needs beyond that it must arrange itself.
type jitFunc func(arg uintptr) uintptr

// Branch transfers control to the start of the sealed region, passing arg in
// the platform's first argument register and returning whatever ends up in
// its first return register. It never returns if the region itself calls
// exit(2)/_exit, which is the only way the spec's S1 scenario is observed.
func (e *Executable) Branch(arg uintptr) (uintptr, error) {
	if !cacheCtlSupported || !mmapSupported || len(e.mem) == 0 {
		return 0, ErrUnsupportedArch
	}
	entry := uintptr(unsafe.Pointer(&e.mem[0]))
	// A Go func value is, for a non-closure, a pointer to a single-word
	// struct holding the function's entry PC. Building that struct by hand
	// in `entry` and then reinterpreting a pointer-to-it as the func value
	// itself lets us call into raw machine code with no cgo and no
	// per-architecture assembly trampoline.
	fnPtr := unsafe.Pointer(&entry)
	fn := *(*jitFunc)(unsafe.Pointer(&fnPtr))
	return fn(arg), nil
}
