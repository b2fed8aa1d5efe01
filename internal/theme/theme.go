// Package theme loads host themes from YAML, TOML or JSON files.
//
// Fields missing from a file keep their stock values, so a theme file only
// needs to list what it overrides.
package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/servicex/internal/shared/types"
)

// Format is a theme file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

var ErrUnknownFormat = errors.New("unknown theme format")

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Load reads a theme file.
func Load(path string) (types.Theme, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return types.Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Theme{}, fmt.Errorf("read theme: %w", err)
	}
	return Parse(data, format)
}

// LoadOrDefault reads path when set, falling back to the stock theme.
func LoadOrDefault(path string) (types.Theme, error) {
	if path == "" {
		return types.DefaultTheme(), nil
	}
	return Load(path)
}

// Parse decodes a theme over the stock defaults.
func Parse(data []byte, format Format) (types.Theme, error) {
	th := types.DefaultTheme()

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &th)
	case FormatTOML:
		err = toml.Unmarshal(data, &th)
	case FormatJSON:
		err = sonic.Unmarshal(data, &th)
	default:
		return types.Theme{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return types.Theme{}, fmt.Errorf("%s theme parse error: %w", format, err)
	}
	return th, nil
}

// Marshal encodes a theme in the given format.
func Marshal(th types.Theme, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(th)
	case FormatTOML:
		return toml.Marshal(th)
	case FormatJSON:
		return sonic.MarshalIndent(th, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Framework returns the fixed brand theme used by profile and
// service-instance pages regardless of the host theme.
func Framework() types.Theme {
	return types.DefaultTheme()
}
