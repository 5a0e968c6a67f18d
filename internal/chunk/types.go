// Package chunk knows the vocabulary of PNG chunk types, validates the order
// they are allowed to appear in, and parses the payload of every chunk type
// the decoder assigns meaning to.
package chunk

import "errors"

// Type identifies a four-character PNG chunk tag such as IHDR or tEXt.
type Type struct {
	slug string
}

func (t Type) String() string {
	return t.slug
}

// FromBytes converts the four raw tag bytes read off the wire into a Type.
// Unrecognized tags are not an error: PNG readers must tolerate unknown
// ancillary chunks, so FromBytes returns a Type carrying the raw tag, equal
// to none of the named types below, rather than failing and lets the caller
// decide what to do with it.
func FromBytes(b [4]byte) Type {
	s := string(b[:])
	if t, ok := known[s]; ok {
		return t
	}
	return Type{slug: s}
}

// Bytes returns the four raw tag bytes for this type.
func (t Type) Bytes() [4]byte {
	var b [4]byte
	copy(b[:], t.slug)
	return b
}

var (
	IHDR = Type{"IHDR"}
	PLTE = Type{"PLTE"}
	IDAT = Type{"IDAT"}
	IEND = Type{"IEND"}

	CHRM = Type{"cHRM"}
	GAMA = Type{"gAMA"}
	ICCP = Type{"iCCP"}
	SBIT = Type{"sBIT"}
	SRGB = Type{"sRGB"}
	BKGD = Type{"bKGD"}
	HIST = Type{"hIST"}
	TRNS = Type{"tRNS"}
	PHYS = Type{"pHYs"}
	SPLT = Type{"sPLT"}
	TIME = Type{"tIME"}
	ITXT = Type{"iTXt"}
	TEXT = Type{"tEXt"}
	ZTXT = Type{"zTXt"}

	Unknown = Type{""}
)

var known = map[string]Type{
	"IHDR": IHDR, "PLTE": PLTE, "IDAT": IDAT, "IEND": IEND,
	"cHRM": CHRM, "gAMA": GAMA, "iCCP": ICCP, "sBIT": SBIT, "sRGB": SRGB,
	"bKGD": BKGD, "hIST": HIST, "tRNS": TRNS, "pHYs": PHYS, "sPLT": SPLT,
	"tIME": TIME, "iTXt": ITXT, "tEXt": TEXT, "zTXt": ZTXT,
}

// ErrUnknownType reports an unrecognized chunk tag, for callers that need a
// hard failure on one. Nothing in this package returns it: FromBytes
// accepts every tag.
var ErrUnknownType = errors.New("chunk: unknown type")

// TypeBits describes the four property bits encoded in the case of each
// letter of a chunk tag (PNG 5.4): ancillary/critical, public/private,
// reserved, and safe-to-copy. The decoder does not act on any of these —
// per the streaming contract an unrecognized chunk is always surfaced
// through the unknown-chunk callback regardless of its bits — but they are
// exposed as a read-only query for callers that want to make their own
// forwarding or stripping decisions.
type TypeBits struct {
	Ancillary  bool
	Private    bool
	Reserved   bool
	SafeToCopy bool
}

// Bits decodes the property bits of a chunk tag from its four raw bytes.
func Bits(raw [4]byte) TypeBits {
	isLower := func(c byte) bool { return c >= 'a' && c <= 'z' }
	return TypeBits{
		Ancillary:  isLower(raw[0]),
		Private:    isLower(raw[1]),
		Reserved:   isLower(raw[2]),
		SafeToCopy: isLower(raw[3]),
	}
}
