package answerstore

import (
	"context"

	"github.com/yanqian/ketoslim-funnel/internal/domain/funnel"
)

// Scoped prefixes every key so one shared backend can hold many visitors.
type Scoped struct {
	backend funnel.StoragePort
	prefix  string
}

// NewScoped scopes backend to keys under "<scope>:".
func NewScoped(backend funnel.StoragePort, scope string) *Scoped {
	return &Scoped{backend: backend, prefix: scope + ":"}
}

func (s *Scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.backend.Get(ctx, s.prefix+key)
}

func (s *Scoped) Set(ctx context.Context, key, value string) error {
	return s.backend.Set(ctx, s.prefix+key, value)
}

func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, s.prefix+key)
}

var _ funnel.StoragePort = (*Scoped)(nil)
