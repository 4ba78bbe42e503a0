package message

import (
	"strings"

	"github.com/zhubert/widgetchat/internal/errors"
)

// Kind is the closed set of message content kinds.
type Kind int

const (
	KindText Kind = iota + 1
	KindImage
	KindFile
	KindMixed
	KindImageGrid
)

// kindNames maps wire names to kinds. Aliases are accepted on input; String()
// always returns the canonical name.
var kindNames = map[string]Kind{
	"text":       KindText,
	"image":      KindImage,
	"file":       KindFile,
	"mixed":      KindMixed,
	"image_grid": KindImageGrid,
	"imagegrid":  KindImageGrid,
	"images":     KindImageGrid,
	"grid":       KindImageGrid,
}

// ParseKind resolves a wire name. Unknown names are an error rather than a
// silent fallback to text.
func ParseKind(name string) (Kind, error) {
	k, ok := kindNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, errors.UnknownMessageKind(name)
	}
	return k, nil
}

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindFile:
		return "file"
	case KindMixed:
		return "mixed"
	case KindImageGrid:
		return "image_grid"
	default:
		return "invalid"
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= KindText && k <= KindImageGrid
}

// IsTextual reports whether the kind renders through the markdown pipeline.
func (k Kind) IsTextual() bool {
	return k == KindText || k == KindMixed
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.UnknownMessageKind(k.String())
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
