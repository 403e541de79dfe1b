// Package config loads the source catalog: named descriptors of the search
// services the harvester knows how to page through.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Logger struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type Global struct {
	Logger    Logger `yaml:"logger"`
	UserAgent string `yaml:"user_agent"`
}

// Harvest holds run defaults, overridable per invocation.
type Harvest struct {
	DelaySeconds int `yaml:"delay_seconds"`
	MaxPages     int `yaml:"max_pages"`
	PageSize     int `yaml:"page_size"`
}

// Source describes one search service: where it lives and where in its
// responses the result array and total count sit.
type Source struct {
	Name        string            `yaml:"name"`
	Base        string            `yaml:"base"`
	Endpoint    string            `yaml:"endpoint"`
	RecordsPath string            `yaml:"records_path"`
	TotalPath   string            `yaml:"total_path"`
	PageParam   string            `yaml:"page_param"`
	PageBase    int               `yaml:"page_base"`
	APIKeyParam string            `yaml:"api_key_param"`
	APIKeyEnv   string            `yaml:"api_key_env"`
	PageSize    int               `yaml:"page_size"`
	Params      map[string]string `yaml:"params"`
}

type Catalog struct {
	Global  Global   `yaml:"global"`
	Harvest Harvest  `yaml:"harvest"`
	Sources []Source `yaml:"sources"`
}

// NewCatalogFromFile loads and validates a source catalog.
func NewCatalogFromFile(fpath string) (*Catalog, error) {
	bs, err := os.ReadFile(fpath)
	if err != nil {
		return nil, err
	}

	var catalog Catalog
	if err := yaml.Unmarshal(bs, &catalog); err != nil {
		return nil, err
	}

	if err := catalog.validate(); err != nil {
		return nil, err
	}

	return &catalog, nil
}

// Source returns the named source descriptor.
func (c *Catalog) Source(name string) (*Source, bool) {
	for i := range c.Sources {
		if c.Sources[i].Name == name {
			return &c.Sources[i], true
		}
	}
	return nil, false
}

func (c *Catalog) validate() error {
	seen := make(map[string]bool, len(c.Sources))
	for _, s := range c.Sources {
		if s.Name == "" {
			return fmt.Errorf("source missing name")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate source %q", s.Name)
		}
		seen[s.Name] = true

		if s.Base == "" {
			return fmt.Errorf("source %q: base is required", s.Name)
		}
		if s.Endpoint == "" {
			return fmt.Errorf("source %q: endpoint is required", s.Name)
		}
		if s.RecordsPath == "" {
			return fmt.Errorf("source %q: records_path is required", s.Name)
		}
		if s.TotalPath == "" {
			return fmt.Errorf("source %q: total_path is required", s.Name)
		}
	}
	return nil
}
