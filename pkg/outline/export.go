package outline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// WriteJSON encodes o as indented JSON. The output can be read back with
// [Parse] and [FormatJSON].
func WriteJSON(o *Outline, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(o); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes o as YAML.
func WriteYAML(o *Outline, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(o); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// Export writes o to path in the given format. Markdown is not a supported
// output format; it falls back to JSON.
func Export(o *Outline, path string, f Format) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()
	if f == FormatYAML {
		return WriteYAML(o, file)
	}
	return WriteJSON(o, file)
}
