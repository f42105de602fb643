package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileSource reads messages from a JSON dump exported off the device: a
// top-level array of objects with id, sender, body and received_at.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Messages loads the dump and applies f. Messages keep file order;
// MaxCount truncates after the date filter.
func (s *FileSource) Messages(ctx context.Context, f Filter) ([]RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading message dump %s: %w", s.path, err)
	}

	var msgs []RawMessage
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("decoding message dump %s: %w", s.path, err)
	}

	var out []RawMessage
	for _, m := range msgs {
		if !f.MinDate.IsZero() && m.ReceivedAt.Before(f.MinDate) {
			continue
		}
		out = append(out, m)
		if f.MaxCount > 0 && len(out) == f.MaxCount {
			break
		}
	}
	return out, nil
}
