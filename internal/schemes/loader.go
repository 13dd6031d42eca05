package schemes

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the catalog is looked up when nothing else is configured.
const DefaultPath = "schemes.json"

//go:embed catalog.schema.json
var catalogSchema string

// ErrInvalidCatalog is returned when the document does not match the catalog schema.
var ErrInvalidCatalog = errors.New("invalid catalog document")

type document struct {
	Schemes []Scheme `json:"schemes"`
}

// Load reads and validates the catalog document at path.
// YAML is accepted for .yaml and .yml files, everything else is parsed as JSON.
func Load(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %q: %w", path, err)
	}

	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}

	return Parse(data, format)
}

// LoadOrEmpty never fails: a missing or malformed catalog results in an empty
// catalog whose Err reports the reason.
func LoadOrEmpty(path string, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog, err := Load(path)
	if err != nil {
		logger.Warn("scheme catalog is not available, continuing with an empty catalog",
			zap.String("path", path),
			zap.Error(err),
		)
		return Empty(err)
	}

	logger.Info("scheme catalog loaded",
		zap.String("path", path),
		zap.Int("schemes", catalog.Len()),
	)

	return catalog
}

// Parse decodes a catalog document in the given format ("json" or "yaml").
func Parse(data []byte, format string) (*Catalog, error) {
	var raw map[string]any

	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse catalog yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse catalog json: %w", err)
		}
	}

	if raw == nil {
		return nil, fmt.Errorf("%w: document is empty", ErrInvalidCatalog)
	}

	if err := validate(raw); err != nil {
		return nil, err
	}

	var doc document
	cfg := &mapstructure.DecoderConfig{
		Result:           &doc,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("create catalog decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	return NewCatalog(doc.Schemes)
}

func validate(raw map[string]any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(catalogSchema),
		gojsonschema.NewGoLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("validate catalog: %w", err)
	}

	if result.Valid() {
		return nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}

	return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(errs, "; "))
}
