// Package clipboard reads and writes the system clipboard for the CLI.
package clipboard

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"sync"

	"golang.design/x/clipboard"

	"github.com/zhubert/widgetchat/internal/errors"
	"github.com/zhubert/widgetchat/internal/logger"
)

// ImageData is an image read from the clipboard, re-encoded as PNG.
type ImageData struct {
	Data      []byte
	MediaType string
	Width     int
	Height    int
}

// backend abstracts the system clipboard so tests never touch it.
type backend interface {
	Init() error
	Read(f clipboard.Format) []byte
	Write(f clipboard.Format, data []byte)
}

type systemBackend struct{}

func (systemBackend) Init() error                           { return clipboard.Init() }
func (systemBackend) Read(f clipboard.Format) []byte        { return clipboard.Read(f) }
func (systemBackend) Write(f clipboard.Format, data []byte) { clipboard.Write(f, data) }

var (
	mu          sync.Mutex
	current     backend = systemBackend{}
	initialized bool
)

// Init initializes the clipboard. It is safe to call multiple times.
func Init() error {
	mu.Lock()
	defer mu.Unlock()
	return initLocked()
}

func initLocked() error {
	if initialized {
		return nil
	}
	if err := current.Init(); err != nil {
		logger.ComponentLogger("clipboard").Warn("init failed", "error", err)
		return errors.E(errors.Op("clipboard.Init"), errors.KindIO, "clipboard unavailable", err)
	}
	initialized = true
	return nil
}

// ReadText returns the clipboard text, or "" when it holds none.
func ReadText() (string, error) {
	mu.Lock()
	defer mu.Unlock()
	if err := initLocked(); err != nil {
		return "", err
	}
	return string(current.Read(clipboard.FmtText)), nil
}

// WriteText replaces the clipboard content with text.
func WriteText(text string) error {
	mu.Lock()
	defer mu.Unlock()
	if err := initLocked(); err != nil {
		return err
	}
	current.Write(clipboard.FmtText, []byte(text))
	logger.ComponentLogger("clipboard").Debug("wrote text", "bytes", len(text))
	return nil
}

// ReadImage reads an image from the clipboard. It returns nil without error
// when the clipboard holds no image.
func ReadImage() (*ImageData, error) {
	mu.Lock()
	if err := initLocked(); err != nil {
		mu.Unlock()
		return nil, err
	}
	raw := current.Read(clipboard.FmtImage)
	mu.Unlock()

	if len(raw) == 0 {
		return nil, nil
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.E(errors.Op("clipboard.ReadImage"), errors.KindInvalid, "failed to decode clipboard image", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.E(errors.Op("clipboard.ReadImage"), errors.KindIO, "failed to encode image as PNG", err)
	}

	b := img.Bounds()
	logger.ComponentLogger("clipboard").Debug("read image", "format", format, "width", b.Dx(), "height", b.Dy())
	return &ImageData{
		Data:      buf.Bytes(),
		MediaType: "image/png",
		Width:     b.Dx(),
		Height:    b.Dy(),
	}, nil
}
