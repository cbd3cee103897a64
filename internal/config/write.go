package config

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed default_config.toml
var defaultConfig string

// WriteDefault writes the example config to the specified path.
// Creates parent directories if needed.
func WriteDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfig), 0644)
}

// Encode writes c as TOML, preceded by a comment naming where the
// values came from. Environment references are already resolved.
func (c *Config) Encode(w io.Writer, source string) error {
	if source != "" {
		if _, err := fmt.Fprintf(w, "# effective configuration (%s)\n\n", source); err != nil {
			return err
		}
	}
	enc := toml.NewEncoder(w)
	enc.Indent = ""
	return enc.Encode(c)
}
