package offer

import (
	"fmt"
	"time"

	apperrors "github.com/yanqian/ketoslim-funnel/pkg/errors"
)

// PlanType identifies a purchasable plan.
type PlanType string

const (
	PlanDiscount PlanType = "discount"
	PlanPayments PlanType = "payments"
)

// Plan describes a plan's price.
type Plan struct {
	Type         PlanType `json:"type"`
	Price        int      `json:"price"`
	Installments int      `json:"installments"`
	Description  string   `json:"description"`
}

// DefaultDiscountWindow is how long the one-payment discount stays available.
const DefaultDiscountWindow = 10 * time.Minute

var plans = map[PlanType]Plan{
	PlanDiscount: {Type: PlanDiscount, Price: 67, Installments: 1, Description: "1 payment of $67"},
	PlanPayments: {Type: PlanPayments, Price: 29, Installments: 3, Description: "3 payments of $29"},
}

// Lookup returns the plan for t.
func Lookup(t PlanType) (Plan, bool) {
	p, ok := plans[t]
	return p, ok
}

// Snapshot is the offer screen's render model at one instant.
type Snapshot struct {
	Selected        PlanType `json:"selected"`
	Plans           []Plan   `json:"plans"`
	SecondsLeft     int      `json:"secondsLeft"`
	Countdown       string   `json:"countdown"`
	DiscountExpired bool     `json:"discountExpired"`
}

// Confirmation is returned when the visitor continues with a plan.
type Confirmation struct {
	Plan    Plan   `json:"plan"`
	Message string `json:"message"`
}

// State tracks one visit to the offer screen. The countdown runs from
// StartedAt; no timer is needed because every read derives from the clock.
type State struct {
	window    time.Duration
	startedAt time.Time
	selected  PlanType
}

// NewState starts the countdown at now with the discount plan selected.
func NewState(window time.Duration, now time.Time) *State {
	if window <= 0 {
		window = DefaultDiscountWindow
	}
	return &State{window: window, startedAt: now, selected: PlanDiscount}
}

// Remaining returns the time left on the discount, never negative.
func (s *State) Remaining(now time.Time) time.Duration {
	left := s.startedAt.Add(s.window).Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether the discount window has closed.
func (s *State) Expired(now time.Time) bool {
	return s.Remaining(now) == 0
}

// Selected returns the effective selection; an expired discount falls back
// to the payments plan.
func (s *State) Selected(now time.Time) PlanType {
	if s.selected == PlanDiscount && s.Expired(now) {
		s.selected = PlanPayments
	}
	return s.selected
}

// Select changes the selected plan.
func (s *State) Select(t PlanType, now time.Time) error {
	if _, ok := plans[t]; !ok {
		return apperrors.Wrap("invalid_input", fmt.Sprintf("unknown plan %q", t), nil)
	}
	if t == PlanDiscount && s.Expired(now) {
		return apperrors.Wrap("discount_expired", "the discount is no longer available", nil)
	}
	s.selected = t
	return nil
}

// Snapshot renders the state at now.
func (s *State) Snapshot(now time.Time) Snapshot {
	left := s.Remaining(now)
	secs := int((left + time.Second - 1) / time.Second)
	return Snapshot{
		Selected:        s.Selected(now),
		Plans:           []Plan{plans[PlanDiscount], plans[PlanPayments]},
		SecondsLeft:     secs,
		Countdown:       FormatCountdown(secs),
		DiscountExpired: left == 0,
	}
}

// Continue confirms the selected plan. Nothing is charged.
func (s *State) Continue(now time.Time) Confirmation {
	plan := plans[s.Selected(now)]
	label := "1 Payment"
	if plan.Type == PlanPayments {
		label = "3 Payments"
	}
	return Confirmation{
		Plan:    plan,
		Message: fmt.Sprintf("Thank you for continuing with the %s option!", label),
	}
}

// FormatCountdown renders seconds as m:ss.
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
