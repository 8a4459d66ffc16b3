// Package registry maps connector names to factories. Connector packages
// register themselves from init; import them for side effects to make them
// available.
package registry

import (
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/synthdata/pkg/config"
	"github.com/ajitpratap0/synthdata/pkg/connector/core"
	"github.com/ajitpratap0/synthdata/pkg/errors"
	"github.com/ajitpratap0/synthdata/pkg/logger"
)

// Registry manages connector registration and instantiation
type Registry struct {
	sources      map[string]SourceFactory
	destinations map[string]DestinationFactory
	catalog      map[string]*ConnectorInfo
	mu           sync.RWMutex
}

// SourceFactory creates a source from the job configuration.
type SourceFactory func(cfg *config.Config) (core.Source, error)

// DestinationFactory creates a destination from the job configuration.
type DestinationFactory func(cfg *config.Config) (core.Destination, error)

// ConnectorInfo describes a registered connector for listings.
type ConnectorInfo struct {
	Name         string             `json:"name"`
	Type         core.ConnectorType `json:"type"`
	Description  string             `json:"description"`
	Capabilities []string           `json:"capabilities,omitempty"`
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates a new connector registry
func NewRegistry() *Registry {
	return &Registry{
		sources:      make(map[string]SourceFactory),
		destinations: make(map[string]DestinationFactory),
		catalog:      make(map[string]*ConnectorInfo),
	}
}

func catalogKey(t core.ConnectorType, name string) string {
	return string(t) + "/" + name
}

// RegisterSource registers a source connector factory
func (r *Registry) RegisterSource(info ConnectorInfo, factory SourceFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[info.Name]; exists {
		return errors.Newf(errors.ErrorTypeConfig, "source connector %s already registered", info.Name)
	}
	info.Type = core.ConnectorTypeSource
	r.sources[info.Name] = factory
	r.catalog[catalogKey(info.Type, info.Name)] = &info
	logger.Debug("source connector registered", zap.String("name", info.Name))
	return nil
}

// RegisterDestination registers a destination connector factory
func (r *Registry) RegisterDestination(info ConnectorInfo, factory DestinationFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.destinations[info.Name]; exists {
		return errors.Newf(errors.ErrorTypeConfig, "destination connector %s already registered", info.Name)
	}
	info.Type = core.ConnectorTypeDestination
	r.destinations[info.Name] = factory
	r.catalog[catalogKey(info.Type, info.Name)] = &info
	logger.Debug("destination connector registered", zap.String("name", info.Name))
	return nil
}

// CreateSource creates the source named by cfg.Source.Type.
func (r *Registry) CreateSource(cfg *config.Config) (core.Source, error) {
	name := cfg.Source.Type
	r.mu.RLock()
	factory, exists := r.sources[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrorTypeConfig, "source connector %s not found", name).
			WithDetail("available", r.ListSources())
	}

	source, err := factory(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to create source connector "+name)
	}
	return source, nil
}

// CreateDestination creates the destination named by cfg.Destination.Type.
func (r *Registry) CreateDestination(cfg *config.Config) (core.Destination, error) {
	name := cfg.Destination.Type
	r.mu.RLock()
	factory, exists := r.destinations[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrorTypeConfig, "destination connector %s not found", name).
			WithDetail("available", r.ListDestinations())
	}

	destination, err := factory(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to create destination connector "+name)
	}
	return destination, nil
}

// ListSources returns the sorted names of registered sources
func (r *Registry) ListSources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ListDestinations returns the sorted names of registered destinations
func (r *Registry) ListDestinations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.destinations))
	for name := range r.destinations {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Catalog returns connector descriptions, sources first, each group sorted
// by name.
func (r *Registry) Catalog() []*ConnectorInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]*ConnectorInfo, 0, len(r.catalog))
	for _, info := range r.catalog {
		infos = append(infos, info)
	}
	slices.SortFunc(infos, func(a, b *ConnectorInfo) int {
		if a.Type != b.Type {
			if a.Type == core.ConnectorTypeSource {
				return -1
			}
			return 1
		}
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return infos
}

// Global registry functions

// RegisterSource registers a source connector in the global registry
func RegisterSource(info ConnectorInfo, factory SourceFactory) error {
	return globalRegistry.RegisterSource(info, factory)
}

// RegisterDestination registers a destination connector in the global registry
func RegisterDestination(info ConnectorInfo, factory DestinationFactory) error {
	return globalRegistry.RegisterDestination(info, factory)
}

// CreateSource creates a source connector from the global registry
func CreateSource(cfg *config.Config) (core.Source, error) {
	return globalRegistry.CreateSource(cfg)
}

// CreateDestination creates a destination connector from the global registry
func CreateDestination(cfg *config.Config) (core.Destination, error) {
	return globalRegistry.CreateDestination(cfg)
}

// ListSources returns registered sources from the global registry
func ListSources() []string {
	return globalRegistry.ListSources()
}

// ListDestinations returns registered destinations from the global registry
func ListDestinations() []string {
	return globalRegistry.ListDestinations()
}

// Catalog returns connector descriptions from the global registry
func Catalog() []*ConnectorInfo {
	return globalRegistry.Catalog()
}
