package upload

import (
	"fmt"
	"sort"
)

// ProviderFactory is a function that creates a new provider instance
type ProviderFactory func() Provider

// Registry holds all available archive providers
var Registry = make(map[string]ProviderFactory)

// RegisterProvider registers a new archive provider
func RegisterProvider(name string, factory ProviderFactory) {
	Registry[name] = factory
}

// NewProvider creates a new provider instance by name
func NewProvider(name string) (Provider, error) {
	factory, ok := Registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown upload provider: %s (available: %v)", name, ProviderNames())
	}
	return factory(), nil
}

// Setup creates the named provider and configures it. An empty name
// means archiving is disabled and yields a nil provider.
func Setup(name string, config map[string]any) (Provider, error) {
	if name == "" {
		return nil, nil
	}

	provider, err := NewProvider(name)
	if err != nil {
		return nil, err
	}

	if config == nil {
		config = map[string]any{}
	}
	if err := provider.Configure(config); err != nil {
		return nil, fmt.Errorf("failed to configure upload provider: %w", err)
	}

	return provider, nil
}

// ProviderNames lists the registered provider names in order
func ProviderNames() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	RegisterProvider("minio", func() Provider {
		return NewMinioProvider()
	})
}
