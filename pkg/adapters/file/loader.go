// Package file loads route tables from YAML, JSON or TOML documents on disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/aretw0/backstack/internal/logging"
	"github.com/aretw0/backstack/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format names a supported document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatOf infers the encoding from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", &domain.ConfigError{Reason: fmt.Sprintf("unsupported config extension %q", filepath.Ext(path))}
	}
}

// Loader implements ports.ConfigLoader and ports.Watchable for a single file.
type Loader struct {
	path   string
	format Format
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used by Watch.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Loader for path. The format is taken from the extension.
func New(path string, opts ...Option) (*Loader, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	l := &Loader{path: path, format: format, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Path returns the watched file.
func (l *Loader) Path() string {
	return l.path
}

// Load reads, validates and decodes the document.
func (l *Loader) Load(ctx context.Context) (domain.Config, error) {
	if err := ctx.Err(); err != nil {
		return domain.Config{}, err
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		return domain.Config{}, fmt.Errorf("read config %s: %w", l.path, err)
	}
	cfg, err := Parse(data, l.format)
	if err != nil {
		return domain.Config{}, fmt.Errorf("%s: %w", l.path, err)
	}
	return cfg, nil
}

// Parse decodes a document already in memory.
func Parse(data []byte, format Format) (domain.Config, error) {
	doc, err := decode(data, format)
	if err != nil {
		return domain.Config{}, err
	}
	if err := validate(doc); err != nil {
		return domain.Config{}, err
	}

	var cfg domain.Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		TagName:     "mapstructure",
		ErrorUnused: true,
	})
	if err != nil {
		return domain.Config{}, err
	}
	if err := decoder.Decode(doc); err != nil {
		return domain.Config{}, &domain.ConfigError{Reason: err.Error()}
	}
	return cfg, nil
}

func decode(data []byte, format Format) (map[string]any, error) {
	var doc map[string]any
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatTOML:
		_, err = toml.Decode(string(data), &doc)
	default:
		return nil, &domain.ConfigError{Reason: fmt.Sprintf("unsupported format %q", format)}
	}
	if err != nil {
		return nil, &domain.ConfigError{Reason: fmt.Sprintf("decode %s: %v", format, err)}
	}
	if doc == nil {
		return nil, &domain.ConfigError{Reason: "empty document"}
	}
	return doc, nil
}
