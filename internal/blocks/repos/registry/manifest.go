package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"

	"github.com/haukened/block-visibility/internal/blocks/domain"
)

// ErrManifestMissingName is returned for a manifest entry without a "name".
var ErrManifestMissingName = errors.New("block manifest missing 'name'")

// LoadManifestDirectory walks dir and parses every YAML, JSON or TOML block
// manifest it finds, in lexical path order. A manifest either describes one
// block at the top level (block.json style) or several under a "blocks" list.
// Files with other extensions are ignored.
func LoadManifestDirectory(dir string) ([]domain.BlockType, error) {
	var types []domain.BlockType
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		found, err := loadManifestFile(path)
		if err != nil {
			return fmt.Errorf("error parsing manifest %s: %w", path, err)
		}
		types = append(types, found...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return types, nil
}

// LoadInto loads every manifest under dir into r. Duplicate names are an
// error and leave r unchanged.
func LoadInto(r *Registry, dir string) (int, error) {
	types, err := LoadManifestDirectory(dir)
	if err != nil {
		return 0, err
	}
	if err := r.RegisterAll(types); err != nil {
		return 0, fmt.Errorf("register manifests from %s: %w", dir, err)
	}
	return len(types), nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".json":
		return json.Parser()
	case ".toml":
		return toml.Parser()
	default:
		return nil
	}
}

func loadManifestFile(path string) ([]domain.BlockType, error) {
	parser := parserFor(path)
	if parser == nil {
		return nil, nil
	}

	// "/" is the key delimiter so dotted keys in manifests stay flat.
	k := koanf.New("/")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	if k.Exists("blocks") {
		entries := k.Slices("blocks")
		out := make([]domain.BlockType, 0, len(entries))
		for i, entry := range entries {
			bt, err := blockTypeFrom(entry, path)
			if err != nil {
				return nil, fmt.Errorf("blocks[%d]: %w", i, err)
			}
			out = append(out, bt)
		}
		return out, nil
	}

	bt, err := blockTypeFrom(k, path)
	if err != nil {
		return nil, err
	}
	return []domain.BlockType{bt}, nil
}

func blockTypeFrom(k *koanf.Koanf, source string) (domain.BlockType, error) {
	name := strings.TrimSpace(k.String("name"))
	if name == "" {
		return domain.BlockType{}, ErrManifestMissingName
	}
	return domain.BlockType{
		Name:     domain.BlockIdentifier(name),
		Title:    strings.TrimSpace(k.String("title")),
		Category: strings.TrimSpace(k.String("category")),
		Source:   source,
	}, nil
}
