//go:build !((darwin || linux) && arm64 && cgo)

package jit

import "unsafe"

// flushInstructionCache is unavailable on this build: no supported platform
// entry point for instruction-cache invalidation was reachable without cgo,
// or the target is not arm64. Seal still finalizes the region's bytes; Branch
// reports ErrUnsupportedArch instead of jumping into it.
func flushInstructionCache(start unsafe.Pointer, n int) {}

const cacheCtlSupported = false
