package assets

import (
	"context"
	"strings"
)

// StaticResolver maps image keys to paths under a public base URL.
type StaticResolver struct {
	baseURL string
}

// NewStaticResolver builds a resolver rooted at baseURL ("/images" by default).
func NewStaticResolver(baseURL string) *StaticResolver {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "/images"
	}
	return &StaticResolver{baseURL: baseURL}
}

// ResolveImage returns baseURL/key.
func (r *StaticResolver) ResolveImage(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	return r.baseURL + "/" + strings.TrimLeft(key, "/"), nil
}
