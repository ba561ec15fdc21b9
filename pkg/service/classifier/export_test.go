package classifier

import (
	"context"

	"github.com/m-mizutani/gollem"
)

// WithGenerator registers a raw generator function as a provider for tests
func WithGenerator(label string, gen func(ctx context.Context, system, user string, schema *gollem.Parameter) (string, error)) Option {
	return func(c *chain) {
		c.providers = append(c.providers, provider{label: label, gen: gen})
	}
}
