// Package catalog provides the permission catalog: the APIs to enable and,
// for each service account class, the permissions of its custom role and the
// predefined roles bound to it.
//
// Supports both YAML (.yaml, .yml) and JSON (.json) catalog files. A default
// catalog is compiled into the binary.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed iam.json
var defaultCatalog []byte

// Catalog represents the catalog file structure
type Catalog struct {
	APIs           []string `yaml:"apis" json:"apis"`
	Manager        Class    `yaml:"mgmt" json:"mgmt"`
	CloudExtension Class    `yaml:"ce" json:"ce"`
}

// Class is the permission set for one kind of service account
type Class struct {
	Permissions []string `yaml:"permissions" json:"permissions"`
	Roles       []string `yaml:"roles" json:"roles"`
}

// Default returns the compiled-in catalog
func Default() (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(defaultCatalog, &c); err != nil {
		return nil, fmt.Errorf("failed to parse default catalog: %w", err)
	}
	return &c, nil
}

// Load loads and parses a catalog file (supports .yaml, .yml, and .json)
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	return Parse(data, filepath.Ext(path))
}

// Parse decodes catalog data, choosing the format from the file extension
func Parse(data []byte, ext string) (*Catalog, error) {
	var c Catalog

	ext = strings.ToLower(ext)
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
		}
	default:
		// JSON is valid YAML, so YAML covers both
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to parse catalog (unknown extension %s, tried YAML): %w", ext, err)
		}
	}

	return &c, nil
}

// Resolve returns the catalog at path, or the default catalog when path is empty.
// The result is validated.
func Resolve(path string) (*Catalog, error) {
	var (
		c   *Catalog
		err error
	)
	if path == "" {
		c, err = Default()
	} else {
		c, err = Load(path)
	}
	if err != nil {
		return nil, err
	}

	if result := c.Validate(); !result.Valid {
		return nil, fmt.Errorf("invalid catalog: %s", strings.Join(result.Errors, "; "))
	}
	return c, nil
}

// Save saves the catalog to file (format determined by file extension)
func Save(c *Catalog, path string) error {
	var data []byte
	var err error

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal catalog JSON: %w", err)
		}
		data = append(data, '\n')
	default:
		data, err = yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to marshal catalog YAML: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}

	return nil
}
