// Package message classifies chat message payloads and renders them.
//
// A Message is decoded once from a transport payload and never mutated.
// Dispatch picks exactly one rendering strategy from the message Kind:
//
//	text, mixed  -> markdown pipeline
//	image        -> bounded <img> with a load-failure placeholder
//	file         -> icon + formatted size + link opening a new tab
//	image_grid   -> fixed layout table + one <img> per item
package message

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"

	"github.com/zhubert/widgetchat/internal/errors"
)

// Media describes an attachment. Values come from upstream responses and are
// not validated here beyond numeric sanity.
type Media struct {
	URL    string `json:"url" yaml:"url"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Width  int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height int    `json:"height,omitempty" yaml:"height,omitempty"`
	Size   int64  `json:"size,omitempty" yaml:"size,omitempty"`
}

// Message is a single chat message.
type Message struct {
	ID      string    `json:"id" yaml:"id"`
	Kind    Kind      `json:"type" yaml:"type"`
	Content string    `json:"content,omitempty" yaml:"content,omitempty"`
	Media   []Media   `json:"media,omitempty" yaml:"media,omitempty"`
	Self    bool      `json:"self,omitempty" yaml:"self,omitempty"`
	Sender  string    `json:"sender,omitempty" yaml:"sender,omitempty"`
	SentAt  time.Time `json:"sent_at,omitempty" yaml:"sent_at,omitempty"`
}

// Origin is the bubble side a message is drawn on.
type Origin string

const (
	OriginSelf  Origin = "self"
	OriginOther Origin = "other"
)

// Origin returns which side of the conversation the message belongs to.
func (m Message) Origin() Origin {
	if m.Self {
		return OriginSelf
	}
	return OriginOther
}

// Validate checks that the message carries what its kind needs.
func (m Message) Validate() error {
	op := errors.Op("message.Validate")
	switch m.Kind {
	case KindText, KindMixed:
		return nil
	case KindImage, KindFile:
		if len(m.Media) == 0 || m.Media[0].URL == "" {
			return errors.E(op, errors.KindInvalid, m.Kind.String()+" message has no media URL")
		}
		return nil
	case KindImageGrid:
		if len(m.Media) == 0 {
			return errors.E(op, errors.KindInvalid, "image_grid message has no items")
		}
		return nil
	default:
		return errors.UnknownMessageKind(m.Kind.String())
	}
}

// Decode parses a transport payload. A missing ID is replaced by a new UUID.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, errors.MessageDecodeFailed(err)
	}
	return normalize(m)
}

func normalize(m Message) (Message, error) {
	if !m.Kind.Valid() {
		return Message{}, errors.UnknownMessageKind("")
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if err := m.Validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}

// summaryLimit bounds the text used in one-line summaries, in grapheme
// clusters.
const summaryLimit = 80

// Summary returns a one-line plain-text description of m for notifications
// and logs.
func (m Message) Summary() string {
	switch m.Kind {
	case KindText, KindMixed:
		text := strings.Join(strings.Fields(m.Content), " ")
		if uniseg.GraphemeClusterCount(text) <= summaryLimit {
			return text
		}
		var b strings.Builder
		gr := uniseg.NewGraphemes(text)
		for i := 0; i < summaryLimit-1 && gr.Next(); i++ {
			b.WriteString(gr.Str())
		}
		return b.String() + "…"
	case KindImage:
		return "[image]"
	case KindFile:
		if len(m.Media) > 0 {
			return "[file] " + DescribeFile(m.Media[0]).Name
		}
		return "[file]"
	case KindImageGrid:
		return fmt.Sprintf("[%d images]", len(m.Media))
	default:
		return ""
	}
}
