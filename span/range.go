// Package span describes source locations and packs them into the 60-bit
// machine words the evaluator understands.
//
// The evaluator has no side table for metadata, so every encoded term node
// carries its provenance as a single number built by Range.Encode.
package span

import "fmt"

// Bit budget of a packed range. The three fields fill exactly 60 bits.
const (
	FileBits   = 12
	OffsetBits = 24

	MaxFile   = 1<<FileBits - 1
	MaxOffset = 1<<OffsetBits - 1

	offsetMask = MaxOffset
	fileShift  = 2 * OffsetBits
)

// Range is a half-open byte range inside the source file identified by File.
type Range struct {
	File  uint16
	Start uint32
	End   uint32
}

// Ghost is the range given to identifiers synthesized by the core.
var Ghost = Range{}

// New returns a range in file between start and end.
func New(file uint16, start, end uint32) Range {
	return Range{File: file, Start: start, End: end}
}

// Fits reports whether the range can be packed without losing bits.
// Encode does not check this; ranges are produced by upstream passes that
// already respect the budget.
func (r Range) Fits() bool {
	return r.File <= MaxFile && r.Start <= MaxOffset && r.End <= MaxOffset
}

// IsGhost reports whether r is the synthesized zero range.
func (r Range) IsGhost() bool {
	return r == Ghost
}

// Encode packs the range as file<<48 | end<<24 | start.
func (r Range) Encode() uint64 {
	return uint64(r.File&MaxFile)<<fileShift |
		uint64(r.End&offsetMask)<<OffsetBits |
		uint64(r.Start&offsetMask)
}

// Decode is the inverse of Range.Encode.
func Decode(code uint64) Range {
	return Range{
		File:  uint16(code >> fileShift & MaxFile),
		Start: uint32(code & offsetMask),
		End:   uint32(code >> OffsetBits & offsetMask),
	}
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d", r.File, r.Start, r.End)
}
