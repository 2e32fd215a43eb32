package schema

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// EnumProvider lists the allowed values of a late-bound enumeration. source
// is the ScalarNode's EnumSource, usually a remote method name.
type EnumProvider interface {
	EnumValues(ctx context.Context, source string) ([]any, error)
}

// EnumCache resolves enumerations, caching late-bound ones for ttl.
type EnumCache struct {
	provider EnumProvider
	cache    *expirable.LRU[string, []any]
}

// NewEnumCache creates a cache in front of provider. A nil provider leaves
// late-bound enumerations empty.
func NewEnumCache(provider EnumProvider, ttl time.Duration) *EnumCache {
	return &EnumCache{
		provider: provider,
		cache:    expirable.NewLRU[string, []any](64, nil, ttl),
	}
}

// Values returns the enumeration of n: its static values, or the cached
// late-bound ones.
func (c *EnumCache) Values(ctx context.Context, n *ScalarNode) ([]any, error) {
	if len(n.Enum) > 0 || n.EnumSource == "" {
		return n.Enum, nil
	}
	if c == nil || c.provider == nil {
		return nil, nil
	}
	if values, ok := c.cache.Get(n.EnumSource); ok {
		return values, nil
	}
	values, err := c.provider.EnumValues(ctx, n.EnumSource)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		values[i] = Normalize(v)
	}
	c.cache.Add(n.EnumSource, values)
	return values, nil
}

// Purge drops every cached enumeration.
func (c *EnumCache) Purge() {
	if c != nil {
		c.cache.Purge()
	}
}
