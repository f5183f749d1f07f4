package funnel

import (
	"context"
	"io"
	"log/slog"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubStorage struct {
	values  map[string]string
	getErr  error
	setErr  error
	delErr  error
	sets    int
	deletes int
}

func newStubStorage() *stubStorage {
	return &stubStorage{values: make(map[string]string)}
}

func (s *stubStorage) Get(_ context.Context, key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *stubStorage) Set(_ context.Context, key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.sets++
	s.values[key] = value
	return nil
}

func (s *stubStorage) Delete(_ context.Context, key string) error {
	if s.delErr != nil {
		return s.delErr
	}
	s.deletes++
	delete(s.values, key)
	return nil
}

// fakeHistory mimics the browser history stack closely enough to exercise
// the controller: push truncates forward entries, back/forward notify.
type fakeHistory struct {
	entries   []NavigationEntry
	index     int
	listeners map[int]func(NavigationEntry)
	nextID    int
	pushes    int
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{index: -1, listeners: make(map[int]func(NavigationEntry))}
}

func (h *fakeHistory) Push(entry NavigationEntry) {
	h.pushes++
	h.entries = append(h.entries[:h.index+1], entry)
	h.index = len(h.entries) - 1
}

func (h *fakeHistory) Replace(entry NavigationEntry) {
	if h.index < 0 {
		h.entries = append(h.entries, entry)
		h.index = 0
		return
	}
	h.entries[h.index] = entry
}

func (h *fakeHistory) Current() (NavigationEntry, bool) {
	if h.index < 0 {
		return NavigationEntry{}, false
	}
	return h.entries[h.index], true
}

func (h *fakeHistory) Subscribe(fn func(NavigationEntry)) func() {
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() { delete(h.listeners, id) }
}

func (h *fakeHistory) back() bool {
	if h.index <= 0 {
		return false
	}
	h.index--
	h.notify()
	return true
}

func (h *fakeHistory) forward() bool {
	if h.index >= len(h.entries)-1 {
		return false
	}
	h.index++
	h.notify()
	return true
}

func (h *fakeHistory) notify() {
	entry := h.entries[h.index]
	for _, fn := range h.listeners {
		fn(entry)
	}
}

func completeAnswers() Answers {
	return Answers{
		Gender:         GenderFemale,
		BodyFatPercent: 33,
		BMI:            28.4,
		CalorieTarget:  1450,
		WaterIntake:    5,
		WeightLossRate: 1.5,
		SeeResultsDays: 21,
	}
}
