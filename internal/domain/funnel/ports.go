package funnel

import "context"

// StoragePort is durable key/value storage scoped to one visitor.
type StoragePort interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// HistoryPort is the visitor's navigation history. Push and Replace never
// notify subscribers; only native back/forward navigation does.
type HistoryPort interface {
	Push(entry NavigationEntry)
	Replace(entry NavigationEntry)
	Current() (NavigationEntry, bool)
	Subscribe(fn func(NavigationEntry)) (unsubscribe func())
}
