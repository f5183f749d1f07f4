package metrics

import "sync/atomic"

// Funnel counts visitor events as they pass through the funnel.
type Funnel struct {
	visits    atomic.Int64
	advances  atomic.Int64
	retreats  atomic.Int64
	declines  atomic.Int64
	discount  atomic.Int64
	payments  atomic.Int64
	sessions  atomic.Int64
	completes atomic.Int64
}

// FunnelSnapshot is a point-in-time copy of the counters.
type FunnelSnapshot struct {
	Visits          int64 `json:"visits"`
	Advances        int64 `json:"advances"`
	Retreats        int64 `json:"retreats"`
	Declines        int64 `json:"declines"`
	FormsCompleted  int64 `json:"formsCompleted"`
	SessionsStarted int64 `json:"sessionsStarted"`
	DiscountChosen  int64 `json:"discountContinues"`
	PaymentsChosen  int64 `json:"paymentsContinues"`
}

// NewFunnel returns zeroed counters.
func NewFunnel() *Funnel {
	return &Funnel{}
}

func (f *Funnel) Visit()          { f.visits.Add(1) }
func (f *Funnel) Advance()        { f.advances.Add(1) }
func (f *Funnel) Retreat()        { f.retreats.Add(1) }
func (f *Funnel) Decline()        { f.declines.Add(1) }
func (f *Funnel) SessionStarted() { f.sessions.Add(1) }
func (f *Funnel) FormCompleted()  { f.completes.Add(1) }

// Continue records a continue on the named plan. Unknown plans are ignored.
func (f *Funnel) Continue(plan string) {
	switch plan {
	case "discount":
		f.discount.Add(1)
	case "payments":
		f.payments.Add(1)
	}
}

// Snapshot reads every counter.
func (f *Funnel) Snapshot() FunnelSnapshot {
	return FunnelSnapshot{
		Visits:          f.visits.Load(),
		Advances:        f.advances.Load(),
		Retreats:        f.retreats.Load(),
		Declines:        f.declines.Load(),
		FormsCompleted:  f.completes.Load(),
		SessionsStarted: f.sessions.Load(),
		DiscountChosen:  f.discount.Load(),
		PaymentsChosen:  f.payments.Load(),
	}
}

// IsZero reports whether nothing has been recorded yet.
func (f FunnelSnapshot) IsZero() bool {
	return f == FunnelSnapshot{}
}
