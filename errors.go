package hdrview

import "fmt"

// FormatErrorKind classifies decode failures.
type FormatErrorKind int

const (
	// ErrBadMagic means the leading magic bytes do not match the format.
	ErrBadMagic FormatErrorKind = iota
	// ErrBadHeader means the header grammar could not be parsed.
	ErrBadHeader
	// ErrTruncated means the payload is shorter than the header declares.
	ErrTruncated
	// ErrUnsupported means a recognized but unsupported dtype, channel
	// count or encoding variant.
	ErrUnsupported
)

func (k FormatErrorKind) String() string {
	switch k {
	case ErrBadMagic:
		return "bad magic"
	case ErrBadHeader:
		return "bad header"
	case ErrTruncated:
		return "truncated payload"
	case ErrUnsupported:
		return "unsupported"
	}
	return "format error"
}

// FormatError is returned by all decoders. A failed decode aborts the whole
// load; no partial buffers are ever returned.
type FormatError struct {
	Format string // "pfm", "npy", ...
	Kind   FormatErrorKind
	Token  string // offending token or detail, may be empty
}

func (e *FormatError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s: %s", e.Format, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Format, e.Kind, e.Token)
}

func formatErr(format string, kind FormatErrorKind, tokenf string, args ...any) *FormatError {
	return &FormatError{Format: format, Kind: kind, Token: fmt.Sprintf(tokenf, args...)}
}
