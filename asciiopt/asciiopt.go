// Package asciiopt provides a fast ASCII-only check for byte slices,
// dispatching to a word-at-a-time scan on platforms where unaligned 64-bit
// loads are cheap and falling back to a byte-at-a-time scan everywhere else.
//
// It exists purely as a performance optimization: callers use it to decide
// whether a faster, ASCII-specialized code path is safe to take, never to
// change matching semantics.
package asciiopt

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// wordFastPath reports whether this CPU handles unaligned 64-bit loads
// efficiently, matching the capability-detection style used elsewhere for
// SIMD dispatch: check the flag once at package init, branch on it at
// every call site instead of probing per-call.
var wordFastPath = cpu.X86.HasSSE42 || cpu.ARM64.HasASIMD

// highBits has the top bit of every byte set; any non-ASCII byte in a word
// sets at least one of them when ORed together.
const highBits = 0x8080808080808080

// IsASCII reports whether every byte in b is < 0x80.
func IsASCII(b []byte) bool {
	if !wordFastPath {
		return isASCIIByte(b)
	}

	i := 0
	for ; i+8 <= len(b); i += 8 {
		word := binary.LittleEndian.Uint64(b[i : i+8])
		if word&highBits != 0 {
			return false
		}
	}
	return isASCIIByte(b[i:])
}

func isASCIIByte(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
