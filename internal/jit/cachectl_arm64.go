//go:build (darwin || linux) && arm64 && cgo

package jit

/*
#include <stddef.h>

#if defined(__APPLE__)
#include <libkern/OSCacheControl.h>
static void triad_clear_cache(void *start, size_t n) {
	sys_icache_invalidate(start, n);
}
#else
static void triad_clear_cache(void *start, size_t n) {
	__builtin___clear_cache((char *)start, (char *)start + n);
}
#endif
*/
import "C"
import "unsafe"

// flushInstructionCache performs the data-cache-clean, instruction-cache-
// invalidate, and barrier sequence the spec's §5 memory-ordering discipline
// requires, over [start, start+n). Both platform entry points already issue
// the required DSB/ISB pair internally.
func flushInstructionCache(start unsafe.Pointer, n int) {
	C.triad_clear_cache(start, C.size_t(n))
}

const cacheCtlSupported = true
