package phrase

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Decoder reads raw phrase entries from a table file, preserving declaration order.
type Decoder interface {
	Decode(r io.Reader) ([]Entry, error)
}

// SupportedExtensions lists phrase table file extensions.
var SupportedExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
	".toml": true,
	".csv":  true,
}

// ForFile returns the decoder for a phrase table filename.
func ForFile(filename string) (Decoder, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONDecoder{}, nil
	case ".yaml", ".yml":
		return &YAMLDecoder{}, nil
	case ".toml":
		return &TOMLDecoder{}, nil
	case ".csv":
		return &CSVDecoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported phrase table extension: %s", ext)
	}
}

// LoadFile reads and validates a phrase table from disk.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open phrase table: %w", err)
	}
	defer f.Close()
	return Load(f, filepath.Base(path))
}

// Load decodes a phrase table using the decoder selected by filename.
func Load(r io.Reader, filename string) (*Table, error) {
	dec, err := ForFile(filename)
	if err != nil {
		return nil, err
	}
	entries, err := dec.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	return NewTable(name, entries)
}

// JSONDecoder accepts either a flat object of code → template, read token by
// token so key order survives, or an array of {"key", "template"} objects.
type JSONDecoder struct{}

func (d *JSONDecoder) Decode(r io.Reader) ([]Entry, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []Entry
	switch tok {
	case json.Delim('{'):
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := keyTok.(string)
			var template string
			if err := dec.Decode(&template); err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			entries = append(entries, NewEntry(key, template))
		}
	case json.Delim('['):
		for dec.More() {
			var raw struct {
				Key      string `json:"key"`
				Template string `json:"template"`
			}
			if err := dec.Decode(&raw); err != nil {
				return nil, err
			}
			entries = append(entries, NewEntry(raw.Key, raw.Template))
		}
	default:
		return nil, fmt.Errorf("expected object or array, got %v", tok)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}

// YAMLDecoder walks the node tree rather than decoding into a map, which would
// lose declaration order.
type YAMLDecoder struct{}

func (d *YAMLDecoder) Decode(r io.Reader) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	var entries []Entry
	switch root.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			k, v := root.Content[i], root.Content[i+1]
			if v.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: template for %q must be a string", v.Line, k.Value)
			}
			entries = append(entries, NewEntry(k.Value, v.Value))
		}
	case yaml.SequenceNode:
		for _, item := range root.Content {
			var raw struct {
				Key      string `yaml:"key"`
				Template string `yaml:"template"`
			}
			if err := item.Decode(&raw); err != nil {
				return nil, fmt.Errorf("line %d: %w", item.Line, err)
			}
			entries = append(entries, NewEntry(raw.Key, raw.Template))
		}
	default:
		return nil, fmt.Errorf("line %d: expected mapping or sequence", root.Line)
	}
	return entries, nil
}

// TOMLDecoder reads top-level string keys and one level of grouping tables,
// e.g. [glomeruli] MM0 = "...". Group names only organize the file.
type TOMLDecoder struct{}

func (d *TOMLDecoder) Decode(r io.Reader) ([]Entry, error) {
	var raw map[string]any
	md, err := toml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, key := range md.Keys() {
		switch len(key) {
		case 1:
			switch v := raw[key[0]].(type) {
			case string:
				entries = append(entries, NewEntry(key[0], v))
			case map[string]any:
				// Group header; its members follow as two-part keys.
			default:
				return nil, fmt.Errorf("key %q: template must be a string", key.String())
			}
		case 2:
			group, _ := raw[key[0]].(map[string]any)
			v, ok := group[key[1]].(string)
			if !ok {
				return nil, fmt.Errorf("key %q: template must be a string", key.String())
			}
			entries = append(entries, NewEntry(key[1], v))
		default:
			return nil, fmt.Errorf("key %q: nested deeper than one group", key.String())
		}
	}
	return entries, nil
}

// CSVDecoder reads Key,Value rows; a leading "Key,Value" header row is skipped.
type CSVDecoder struct{}

func (d *CSVDecoder) Decode(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for i, rec := range records {
		if i == 0 && len(rec) >= 2 && strings.EqualFold(rec[0], "key") && strings.EqualFold(rec[1], "value") {
			continue
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("row %d: expected key and value columns", i+1)
		}
		entries = append(entries, NewEntry(rec[0], rec[1]))
	}
	return entries, nil
}
