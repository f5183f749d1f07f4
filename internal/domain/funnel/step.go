package funnel

import (
	"strconv"
	"strings"
)

// Step is the position in the funnel: 0 is the form, 1..6 the insight cards
// and 7 the offer. Anything else renders nothing.
type Step int

const (
	StepForm      Step = 0
	StepFirstCard Step = 1
	StepLastCard  Step = CardCount
	StepOffer     Step = CardCount + 1
	StepInvalid   Step = -1
)

// Screen names what a step renders.
type Screen string

const (
	ScreenForm   Screen = "form"
	ScreenResult Screen = "result"
	ScreenOffer  Screen = "offer"
	ScreenNone   Screen = "none"
)

const (
	RootPath    = "/"
	ResultsPath = "/results/"
	OfferPath   = "/sales"
)

// Valid reports whether s is renderable.
func (s Step) Valid() bool {
	return s >= StepForm && s <= StepOffer
}

// IsCard reports whether s shows an insight card.
func (s Step) IsCard() bool {
	return s >= StepFirstCard && s <= StepLastCard
}

// Screen maps s to the screen it renders.
func (s Step) Screen() Screen {
	switch {
	case s == StepForm:
		return ScreenForm
	case s.IsCard():
		return ScreenResult
	case s == StepOffer:
		return ScreenOffer
	default:
		return ScreenNone
	}
}

// NavigationEntry pairs a step with the path shown in the address bar. It is
// the unit stored on the history stack.
type NavigationEntry struct {
	Step Step   `json:"step"`
	Path string `json:"path"`
}

// PathForStep derives the address-bar path for s. Invalid steps have no path.
func PathForStep(s Step) (string, bool) {
	switch {
	case s == StepForm:
		return RootPath, true
	case s.IsCard():
		return ResultsPath + strconv.Itoa(int(s)), true
	case s == StepOffer:
		return OfferPath, true
	default:
		return "", false
	}
}

// ResolvePath recovers the step encoded in path. Results paths outside
// 1..CardCount and unknown paths resolve to StepInvalid.
func ResolvePath(path string) Step {
	clean := strings.TrimSpace(path)
	if clean == "" || clean == RootPath {
		return StepForm
	}
	clean = strings.TrimRight(clean, "/")
	if clean == OfferPath {
		return StepOffer
	}
	raw, ok := strings.CutPrefix(clean, ResultsPath)
	if !ok || raw == "" || strings.Contains(raw, "/") {
		return StepInvalid
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < int(StepFirstCard) || n > CardCount {
		return StepInvalid
	}
	return Step(n)
}

// entryFor builds the canonical history entry for s.
func entryFor(s Step) NavigationEntry {
	path, _ := PathForStep(s)
	return NavigationEntry{Step: s, Path: path}
}
