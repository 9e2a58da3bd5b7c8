package imageio

import (
	"encoding/json"
	"fmt"
	"os"
)

// Manifest describes a written texture. ImgRatio is the width/height side
// value the renderer needs for shader-space aspect correction.
type Manifest struct {
	Texture    string  `json:"texture"`
	Source     string  `json:"source"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	ImgRatio   float64 `json:"imgRatio"`
	Background string  `json:"background"`
	Format     Format  `json:"format"`
}

// WriteManifest stores m as JSON at path.
func WriteManifest(path string, m Manifest) error {
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest json: %w", err)
	}
	return os.WriteFile(path, raw, 0666)
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	raw, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("read manifest %q: %w", path, err)
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return m, fmt.Errorf("unmarshal manifest %q: %w", path, err)
	}
	return m, nil
}
