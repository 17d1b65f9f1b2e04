package content

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a content file. An empty path or a missing file
// yields the built-in defaults.
func Load(path string) (Content, error) {
	if path == "" {
		return Defaults(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return Content{}, fmt.Errorf("read content file: %w", err)
	}

	var c Content
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Content{}, fmt.Errorf("parse content file: %w", err)
	}
	if err := Validate(c); err != nil {
		return Content{}, err
	}
	return c, nil
}
