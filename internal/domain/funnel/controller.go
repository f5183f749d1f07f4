package funnel

import (
	"context"
	"log/slog"

	apperrors "github.com/yanqian/ketoslim-funnel/pkg/errors"
)

// Progress backs the progress dots on result screens.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// View is everything the view layer needs to render the current step.
type View struct {
	Step      Step      `json:"step"`
	Screen    Screen    `json:"screen"`
	Path      string    `json:"path"`
	Card      *Card     `json:"card,omitempty"`
	PrevTitle *string   `json:"prevTitle,omitempty"`
	Progress  *Progress `json:"progress,omitempty"`
}

// Controller owns the current step and keeps it in agreement with the
// history port. It is not safe for concurrent use: callers deliver events one
// at a time, as a browser event loop would.
type Controller struct {
	store       *FormDataStore
	history     HistoryPort
	logger      *slog.Logger
	step        Step
	unsubscribe func()
}

// NewController wires a controller to its store and history.
func NewController(store *FormDataStore, history HistoryPort, logger *slog.Logger) *Controller {
	return &Controller{
		store:   store,
		history: history,
		logger:  logger.With("component", "funnel.controller"),
		step:    StepForm,
	}
}

// Mount loads persisted answers, resolves the step encoded in path and starts
// listening for native navigation. Close must be called when done.
func (c *Controller) Mount(ctx context.Context, path string) error {
	if c.unsubscribe != nil {
		return apperrors.Wrap("already_mounted", "controller already mounted", nil)
	}
	if _, err := c.store.Load(ctx); err != nil {
		return err
	}
	c.step = ResolvePath(path)
	entry := entryFor(c.step)
	if !c.step.Valid() {
		entry.Path = path
	}
	c.history.Replace(entry)
	c.unsubscribe = c.history.Subscribe(c.handleNavigation)
	c.logger.Debug("controller mounted", "step", int(c.step), "path", entry.Path)
	return nil
}

// Close releases the navigation subscription. It is safe to call repeatedly.
func (c *Controller) Close() {
	if c.unsubscribe == nil {
		return
	}
	c.unsubscribe()
	c.unsubscribe = nil
}

// Mounted reports whether the controller is listening for navigation.
func (c *Controller) Mounted() bool {
	return c.unsubscribe != nil
}

// Step returns the current step.
func (c *Controller) Step() Step {
	return c.step
}

// Path returns the path for the current step. For an invalid step it is the
// path carried by the history entry that produced it.
func (c *Controller) Path() string {
	if path, ok := PathForStep(c.step); ok {
		return path
	}
	if entry, ok := c.history.Current(); ok {
		return entry.Path
	}
	return ""
}

// Store exposes the answers store for form-entry edits.
func (c *Controller) Store() *FormDataStore {
	return c.store
}

// Answers returns the live answers.
func (c *Controller) Answers() Answers {
	return c.store.Current()
}

// GoToStep commits n and then publishes its history entry, so a later native
// navigation can never observe an entry whose step was not rendered.
func (c *Controller) GoToStep(n Step) {
	entry := entryFor(n)
	if n == c.step {
		if cur, ok := c.history.Current(); ok && cur == entry {
			return
		}
	}
	c.step = n
	c.history.Push(entry)
}

// Visit handles direct navigation to path while mounted. Revisiting the
// current entry is a reload and pushes nothing.
func (c *Controller) Visit(path string) {
	step := ResolvePath(path)
	entry := entryFor(step)
	if !step.Valid() {
		entry.Path = path
	}
	if cur, ok := c.history.Current(); ok && cur.Path == entry.Path {
		c.step = cur.Step
		return
	}
	c.step = step
	c.history.Push(entry)
}

// Advance moves one step forward. On the form it first persists data, which
// must be complete; elsewhere answers are left alone.
func (c *Controller) Advance(ctx context.Context, data *Answers) error {
	switch {
	case c.step == StepForm:
		if data == nil || !data.Complete() {
			return apperrors.Wrap("invalid_input", "all answers are required before viewing results", nil)
		}
		if err := c.store.Save(ctx, *data); err != nil {
			return err
		}
	case !c.step.Valid() || c.step == StepOffer:
		return nil
	}
	c.GoToStep(c.step + 1)
	return nil
}

// Retreat moves one step back; a no-op on the form and on invalid steps.
func (c *Controller) Retreat() {
	if c.step <= StepForm || !c.step.Valid() {
		return
	}
	c.GoToStep(c.step - 1)
}

// Decline clears the answers and returns to the form.
func (c *Controller) Decline(ctx context.Context) error {
	if err := c.store.Reset(ctx); err != nil {
		return err
	}
	c.GoToStep(StepForm)
	return nil
}

// View builds the render model for the current step.
func (c *Controller) View() View {
	view := View{Step: c.step, Screen: c.step.Screen(), Path: c.Path()}
	if !c.step.IsCard() {
		return view
	}
	cards := DeriveCards(c.store.Current())
	card := cards[c.step-1]
	view.Card = &card
	if c.step > StepFirstCard {
		prev := cards[c.step-2].Title
		view.PrevTitle = &prev
	}
	view.Progress = &Progress{Current: int(c.step), Total: CardCount}
	return view
}

// handleNavigation adopts the step of an entry reached by native back or
// forward navigation. It must never push.
func (c *Controller) handleNavigation(entry NavigationEntry) {
	c.logger.Debug("native navigation", "from", int(c.step), "to", int(entry.Step))
	c.step = entry.Step
}
