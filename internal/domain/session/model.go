package session

import (
	"context"
	"time"

	"github.com/yanqian/ketoslim-funnel/internal/domain/funnel"
	"github.com/yanqian/ketoslim-funnel/internal/domain/offer"
)

// Config holds runtime knobs for the session manager.
type Config struct {
	IdleTTL        time.Duration
	DiscountWindow time.Duration
}

// History is a visitor's navigation history including the native
// back/forward controls.
type History interface {
	funnel.HistoryPort
	Back() bool
	Forward() bool
}

// HistoryFactory creates an empty history for a new visitor.
type HistoryFactory func() History

// StorageFactory returns the storage port scoped to one visitor.
type StorageFactory func(sessionID string) funnel.StoragePort

// ImageResolver turns a card's image key into a URL.
type ImageResolver interface {
	ResolveImage(ctx context.Context, key string) (string, error)
}

// View is the payload rendered to the client.
type View struct {
	funnel.View
	ImageURL string          `json:"imageUrl,omitempty"`
	Answers  *funnel.Answers `json:"answers,omitempty"`
	Offer    *offer.Snapshot `json:"offer,omitempty"`
}
