package gateway

import (
	"encoding/json"
	"fmt"
	"os"
)

// DatabaseConfig points one database id at its IPC endpoint.
type DatabaseConfig struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Endpoint    string `json:"endpoint"`
	Description string `json:"description,omitempty"`
}

// Registry holds the set of swappable backing databases the gateway can be
// pointed at. It is immutable after construction.
type Registry struct {
	databases map[string]DatabaseConfig
}

func NewRegistry(configs []DatabaseConfig) *Registry {
	dbs := make(map[string]DatabaseConfig, len(configs))
	for _, cfg := range configs {
		dbs[cfg.ID] = cfg
	}
	return &Registry{databases: dbs}
}

// LoadRegistry reads a databases.json file of the shape
// {"databases": [{"id": ..., "name": ..., "endpoint": ...}]}.
func LoadRegistry(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading database config: %w", err)
	}

	var file struct {
		Databases []DatabaseConfig `json:"databases"`
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("error parsing database config: %w", err)
	}

	return NewRegistry(file.Databases), nil
}

func (r *Registry) Get(databaseID string) (DatabaseConfig, bool) {
	cfg, ok := r.databases[databaseID]
	return cfg, ok
}

func (r *Registry) List() []DatabaseConfig {
	out := make([]DatabaseConfig, 0, len(r.databases))
	for _, cfg := range r.databases {
		out = append(out, cfg)
	}
	return out
}
