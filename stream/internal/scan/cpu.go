package scan

import "golang.org/x/sys/cpu"

// fastPathEligible gates the SWAR word-scan on the CPU features that imply
// a reasonably modern integer pipeline to amortize the bit-trick overhead
// against. Platforms x/sys/cpu doesn't recognize here (neither x86 nor
// arm64) fall back to the scalar byte loop, which is correct everywhere
// regardless.
var fastPathEligible = cpu.X86.HasSSE2 || cpu.ARM64.HasASIMD
