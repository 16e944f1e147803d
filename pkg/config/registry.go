package config

import (
	"fmt"
	"os"

	"github.com/airlock-systems/breathe/pkg/engine"
	"gopkg.in/yaml.v3"
)

// AppFactory builds one engine.AppConfig from its YAML document fields
// (params always contains the "type" key too; factories ignore it).
type AppFactory func(params map[string]interface{}) (engine.AppConfig, error)

// Registry maps YAML "type" names to app config factories. Because
// engine.AppConfig is polymorphic, the engine itself cannot deserialize an
// arbitrary app configuration from a document — the caller registers one
// factory per app type it knows how to build, the way a plugin host would.
type Registry struct {
	factories map[string]AppFactory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]AppFactory)}
}

// Register associates typeName with factory. Overwrites any prior
// registration for the same name.
func (r *Registry) Register(typeName string, factory AppFactory) {
	r.factories[typeName] = factory
}

// document is the on-disk shape: a map of app name to its field bag
// (including its "type" discriminator) plus a flat list of link specs.
type document struct {
	Apps  map[string]map[string]interface{} `yaml:"apps"`
	Links []string                          `yaml:"links"`
}

// Build parses a YAML document into an engine.Configuration, resolving
// each app entry through the registered factory for its "type" field.
func (r *Registry) Build(data []byte) (*engine.Configuration, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	cfg := engine.NewConfiguration()
	for name, params := range doc.Apps {
		typeName, _ := params["type"].(string)
		factory, ok := r.factories[typeName]
		if !ok {
			return nil, fmt.Errorf("config: app %q: no factory registered for type %q", name, typeName)
		}
		conf, err := factory(params)
		if err != nil {
			return nil, fmt.Errorf("config: app %q: %w", name, err)
		}
		cfg.WithApp(name, conf)
	}
	for _, spec := range doc.Links {
		cfg.WithLink(spec)
	}
	return cfg, nil
}

// LoadFile reads and builds a Configuration from a local YAML file.
// A missing file is treated as an empty configuration, matching the
// "configure never called" no-op policy of spec.md §7.
func (r *Registry) LoadFile(path string) (*engine.Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return engine.NewConfiguration(), nil
		}
		return nil, err
	}
	return r.Build(data)
}
