package scenes

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"adventure-server/internal/domain"
)

//go:embed content/scenes.json
var defaultContent []byte

// Table is the on-disk shape of a versioned scene table.
type Table struct {
	Version string         `json:"version"`
	Scenes  []domain.Scene `json:"scenes"`
}

// Load decodes a scene table and builds the graph. Unknown JSON fields are rejected.
func Load(r io.Reader) (*Graph, string, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var t Table
	if err := dec.Decode(&t); err != nil {
		return nil, "", fmt.Errorf("failed to decode scene table: %w", err)
	}
	g, err := New(t.Scenes)
	if err != nil {
		return nil, "", err
	}
	return g, t.Version, nil
}

// LoadFile loads a scene table from path.
func LoadFile(path string) (*Graph, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open scene table %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the scene table compiled into the binary.
func Default() (*Graph, string, error) {
	return Load(bytes.NewReader(defaultContent))
}
