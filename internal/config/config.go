// Package config loads the simgraph.yaml server configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory.
const FileName = "simgraph.yaml"

// Config represents the simgraph.yaml configuration.
type Config struct {
	// Server configuration
	Server *ServerConfig `yaml:"server,omitempty"`

	// Data source configuration
	Data *DataConfig `yaml:"data,omitempty"`

	// Engine defaults
	Engine *EngineConfig `yaml:"engine,omitempty"`
}

// ServerConfig contains the HTTP/WebSocket server settings.
type ServerConfig struct {
	// Host to bind
	Host string `yaml:"host,omitempty"`

	// Port to listen on
	Port int `yaml:"port,omitempty"`
}

// DataConfig selects where datasets come from. Exactly one of Snapshot or
// BaseURL should be set; Snapshot wins when both are.
type DataConfig struct {
	// Snapshot is a path to a dataset JSON file written by the
	// projection pipeline. Watched for changes when Watch is true.
	Snapshot string `yaml:"snapshot,omitempty"`

	// Watch reloads the snapshot when the file changes. A pointer so a
	// data section that omits the key keeps the default instead of
	// zeroing it.
	Watch *bool `yaml:"watch,omitempty"`

	// BaseURL of the catalog service
	BaseURL string `yaml:"base_url,omitempty"`
}

// EngineConfig contains the engine defaults applied at startup.
type EngineConfig struct {
	// TopK bounds edges per node
	TopK int `yaml:"top_k,omitempty"`

	// IncludeEdges requests edges at all
	IncludeEdges *bool `yaml:"include_edges,omitempty"`

	// Mode is "physics" or "fixed"
	Mode string `yaml:"mode,omitempty"`

	// Width and Height of the nominal rendering surface
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	includeEdges := true
	watch := true
	return &Config{
		Server: &ServerConfig{Host: "localhost", Port: 8930},
		Data:   &DataConfig{Watch: &watch},
		Engine: &EngineConfig{
			TopK:         5,
			IncludeEdges: &includeEdges,
			Mode:         "physics",
			Width:        1280,
			Height:       800,
		},
	}
}

// Load reads simgraph.yaml from the given directory, merged over defaults.
// A missing file is not an error.
func Load(dir string) (*Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(dir, FileName)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	merge(cfg, &file)
	return cfg, nil
}

func merge(base, over *Config) {
	if over.Server != nil {
		if over.Server.Host != "" {
			base.Server.Host = over.Server.Host
		}
		if over.Server.Port != 0 {
			base.Server.Port = over.Server.Port
		}
	}
	if over.Data != nil {
		if over.Data.Snapshot != "" {
			base.Data.Snapshot = over.Data.Snapshot
		}
		if over.Data.BaseURL != "" {
			base.Data.BaseURL = over.Data.BaseURL
		}
		if over.Data.Watch != nil {
			base.Data.Watch = over.Data.Watch
		}
	}
	if over.Engine != nil {
		if over.Engine.TopK != 0 {
			base.Engine.TopK = over.Engine.TopK
		}
		if over.Engine.IncludeEdges != nil {
			base.Engine.IncludeEdges = over.Engine.IncludeEdges
		}
		if over.Engine.Mode != "" {
			base.Engine.Mode = over.Engine.Mode
		}
		if over.Engine.Width != 0 {
			base.Engine.Width = over.Engine.Width
		}
		if over.Engine.Height != 0 {
			base.Engine.Height = over.Engine.Height
		}
	}
}
