package collect

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document is the persisted form of one run: the archived usernames, the
// full item table, and the thread roots. It doubles as the read-through
// fast path for the next run.
type Document struct {
	Usernames []string `json:"usernames"`
	Items     Items    `json:"items"`
	Roots     []int    `json:"roots"`
}

// LoadDocument reads a prior run's snapshot. A missing file is not an
// error; it returns (nil, nil).
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return &doc, nil
}

// Save writes the snapshot, replacing any prior one.
func (d *Document) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
