package catalog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads a TOML catalog override from path. Keys present in the file
// replace the corresponding defaults; layout entries are merged by name.
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
//
//	version = "acme-2025"
//
//	[layouts]
//	END_PAGE = 12
//
//	[labels]
//	references = "Further Reading"
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a TOML catalog override on top of [Default].
func Parse(data []byte) (*Catalog, error) {
	c := Default()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown catalog keys: %s", strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Encode writes c as TOML in the format accepted by [Load].
func (c *Catalog) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
