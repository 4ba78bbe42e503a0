package message

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zhubert/widgetchat/internal/errors"
)

// LoadTranscript reads a list of messages from a .json, .yaml or .yml file.
// Every message is validated; the first invalid one aborts the load.
func LoadTranscript(path string) ([]Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.TranscriptLoadFailed(path, err)
	}

	var raw []Message
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, errors.TranscriptLoadFailed(path, err)
	}

	msgs := make([]Message, 0, len(raw))
	for i, m := range raw {
		valid, err := normalize(m)
		if err != nil {
			return nil, errors.TranscriptLoadFailed(path, fmt.Errorf("message %d: %w", i, err))
		}
		msgs = append(msgs, valid)
	}
	return msgs, nil
}
