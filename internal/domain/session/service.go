package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yanqian/ketoslim-funnel/internal/domain/funnel"
	"github.com/yanqian/ketoslim-funnel/internal/domain/offer"
	apperrors "github.com/yanqian/ketoslim-funnel/pkg/errors"
)

// Service exposes the funnel to the transport, one mounted controller per
// visitor.
type Service interface {
	Visit(ctx context.Context, sessionID, path string) (View, error)
	State(ctx context.Context, sessionID string) (View, error)
	Update(ctx context.Context, sessionID string, patch funnel.AnswersPatch) (View, error)
	Advance(ctx context.Context, sessionID string, answers *funnel.Answers) (View, error)
	Retreat(ctx context.Context, sessionID string) (View, error)
	Decline(ctx context.Context, sessionID string) (View, error)
	Back(ctx context.Context, sessionID string) (View, error)
	Forward(ctx context.Context, sessionID string) (View, error)
	SelectPlan(ctx context.Context, sessionID string, plan offer.PlanType) (View, error)
	Continue(ctx context.Context, sessionID string) (offer.Confirmation, error)
	Sweep(now time.Time) int
	Close()
}

type visitor struct {
	mu       sync.Mutex
	ctrl     *funnel.Controller
	history  History
	offer    *offer.State
	lastSeen time.Time
	closed   bool
}

type service struct {
	cfg        Config
	newHistory HistoryFactory
	storageFor StorageFactory
	images     ImageResolver
	logger     *slog.Logger
	now        func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewService constructs the session manager.
func NewService(cfg Config, newHistory HistoryFactory, storageFor StorageFactory, images ImageResolver, logger *slog.Logger) Service {
	return &service{
		cfg:        cfg,
		newHistory: newHistory,
		storageFor: storageFor,
		images:     images,
		logger:     logger.With("component", "session.service"),
		now:        time.Now,
		visitors:   make(map[string]*visitor),
	}
}

func (s *service) Visit(ctx context.Context, sessionID, path string) (View, error) {
	v, fresh, err := s.acquire(ctx, sessionID, path)
	if err != nil {
		return View{}, err
	}
	defer v.mu.Unlock()
	if !fresh {
		v.ctrl.Visit(path)
		s.syncOffer(v)
	}
	return s.render(ctx, v), nil
}

func (s *service) State(ctx context.Context, sessionID string) (View, error) {
	v, _, err := s.acquire(ctx, sessionID, funnel.RootPath)
	if err != nil {
		return View{}, err
	}
	defer v.mu.Unlock()
	return s.render(ctx, v), nil
}

func (s *service) Update(ctx context.Context, sessionID string, patch funnel.AnswersPatch) (View, error) {
	v, _, err := s.acquire(ctx, sessionID, funnel.RootPath)
	if err != nil {
		return View{}, err
	}
	defer v.mu.Unlock()
	if v.ctrl.Step() != funnel.StepForm {
		return View{}, apperrors.Wrap("invalid_input", "answers can only be edited on the form", nil)
	}
	if _, err := v.ctrl.Store().Update(ctx, patch); err != nil {
		return View{}, err
	}
	return s.render(ctx, v), nil
}

func (s *service) Advance(ctx context.Context, sessionID string, answers *funnel.Answers) (View, error) {
	return s.transition(ctx, sessionID, func(v *visitor) error {
		return v.ctrl.Advance(ctx, answers)
	})
}

func (s *service) Retreat(ctx context.Context, sessionID string) (View, error) {
	return s.transition(ctx, sessionID, func(v *visitor) error {
		v.ctrl.Retreat()
		return nil
	})
}

func (s *service) Decline(ctx context.Context, sessionID string) (View, error) {
	return s.transition(ctx, sessionID, func(v *visitor) error {
		if err := v.ctrl.Decline(ctx); err != nil {
			return err
		}
		s.logger.Info("offer declined", "session", sessionID)
		return nil
	})
}

func (s *service) Back(ctx context.Context, sessionID string) (View, error) {
	return s.transition(ctx, sessionID, func(v *visitor) error {
		v.history.Back()
		return nil
	})
}

func (s *service) Forward(ctx context.Context, sessionID string) (View, error) {
	return s.transition(ctx, sessionID, func(v *visitor) error {
		v.history.Forward()
		return nil
	})
}

func (s *service) SelectPlan(ctx context.Context, sessionID string, plan offer.PlanType) (View, error) {
	return s.transition(ctx, sessionID, func(v *visitor) error {
		if v.offer == nil {
			return apperrors.Wrap("offer_unavailable", "the offer is not on screen", nil)
		}
		return v.offer.Select(plan, s.now())
	})
}

func (s *service) Continue(ctx context.Context, sessionID string) (offer.Confirmation, error) {
	v, _, err := s.acquire(ctx, sessionID, funnel.RootPath)
	if err != nil {
		return offer.Confirmation{}, err
	}
	defer v.mu.Unlock()
	if v.offer == nil {
		return offer.Confirmation{}, apperrors.Wrap("offer_unavailable", "the offer is not on screen", nil)
	}
	conf := v.offer.Continue(s.now())
	s.logger.Info("offer continued", "session", sessionID, "plan", conf.Plan.Type, "price", conf.Plan.Price)
	return conf, nil
}

// Sweep unmounts visitors idle for longer than the idle TTL and returns how
// many were removed. Busy visitors are skipped until the next sweep.
func (s *service) Sweep(now time.Time) int {
	if s.cfg.IdleTTL <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, v := range s.visitors {
		if !v.mu.TryLock() {
			continue
		}
		if now.Sub(v.lastSeen) > s.cfg.IdleTTL {
			v.ctrl.Close()
			v.closed = true
			delete(s.visitors, id)
			removed++
		}
		v.mu.Unlock()
	}
	if removed > 0 {
		s.logger.Info("idle sessions swept", "removed", removed, "active", len(s.visitors))
	}
	return removed
}

// Close unmounts every visitor.
func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, v := range s.visitors {
		v.mu.Lock()
		v.ctrl.Close()
		v.closed = true
		v.mu.Unlock()
		delete(s.visitors, id)
	}
}

func (s *service) transition(ctx context.Context, sessionID string, fn func(v *visitor) error) (View, error) {
	v, _, err := s.acquire(ctx, sessionID, funnel.RootPath)
	if err != nil {
		return View{}, err
	}
	defer v.mu.Unlock()
	if err := fn(v); err != nil {
		return View{}, err
	}
	s.syncOffer(v)
	return s.render(ctx, v), nil
}

// acquire returns the visitor locked, mounting its controller at path when
// it is new. fresh reports whether this call performed the mount.
func (s *service) acquire(ctx context.Context, sessionID, path string) (*visitor, bool, error) {
	if sessionID == "" {
		return nil, false, apperrors.Wrap("session_error", "session id missing", nil)
	}
	for {
		s.mu.Lock()
		v, ok := s.visitors[sessionID]
		if !ok {
			v = s.newVisitor(sessionID)
			s.visitors[sessionID] = v
		}
		s.mu.Unlock()

		v.mu.Lock()
		if v.closed {
			v.mu.Unlock()
			continue
		}
		v.lastSeen = s.now()
		if v.ctrl.Mounted() {
			return v, false, nil
		}
		if err := v.ctrl.Mount(ctx, path); err != nil {
			v.mu.Unlock()
			return nil, false, err
		}
		s.syncOffer(v)
		s.logger.Debug("session mounted", "session", sessionID, "step", int(v.ctrl.Step()))
		return v, true, nil
	}
}

func (s *service) newVisitor(sessionID string) *visitor {
	history := s.newHistory()
	store := funnel.NewFormDataStore(s.storageFor(sessionID), s.logger)
	return &visitor{
		ctrl:    funnel.NewController(store, history, s.logger),
		history: history,
	}
}

// syncOffer starts the countdown on entering the offer and drops it on
// leaving, the way the offer screen remounts in the browser.
func (s *service) syncOffer(v *visitor) {
	onOffer := v.ctrl.Step() == funnel.StepOffer
	switch {
	case onOffer && v.offer == nil:
		v.offer = offer.NewState(s.cfg.DiscountWindow, s.now())
	case !onOffer:
		v.offer = nil
	}
}

func (s *service) render(ctx context.Context, v *visitor) View {
	view := View{View: v.ctrl.View()}
	switch view.Screen {
	case funnel.ScreenForm:
		answers := v.ctrl.Answers()
		view.Answers = &answers
	case funnel.ScreenResult:
		url, err := s.images.ResolveImage(ctx, view.Card.Image)
		if err != nil {
			s.logger.Warn("image resolve failed", "image", view.Card.Image, "error", err)
		}
		view.ImageURL = url
	case funnel.ScreenOffer:
		if v.offer != nil {
			snap := v.offer.Snapshot(s.now())
			view.Offer = &snap
		}
	}
	return view
}
