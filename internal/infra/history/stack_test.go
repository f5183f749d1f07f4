package history

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ketoslim-funnel/internal/domain/funnel"
	"github.com/yanqian/ketoslim-funnel/internal/infra/answerstore"
)

func entry(step funnel.Step, path string) funnel.NavigationEntry {
	return funnel.NavigationEntry{Step: step, Path: path}
}

func TestPushTruncatesForwardEntries(t *testing.T) {
	s := NewStack()
	s.Push(entry(0, "/"))
	s.Push(entry(1, "/results/1"))
	s.Push(entry(2, "/results/2"))
	require.True(t, s.Back())
	require.True(t, s.Back())

	s.Push(entry(3, "/results/3"))

	require.Equal(t, []funnel.NavigationEntry{entry(0, "/"), entry(3, "/results/3")}, s.Entries())
	require.Equal(t, 1, s.Index())
	require.False(t, s.Forward())
}

func TestReplaceOnEmptyPushes(t *testing.T) {
	s := NewStack()
	_, ok := s.Current()
	require.False(t, ok)

	s.Replace(entry(2, "/results/2"))
	cur, ok := s.Current()
	require.True(t, ok)
	require.Equal(t, entry(2, "/results/2"), cur)

	s.Replace(entry(0, "/"))
	require.Equal(t, 1, s.Len())
	cur, _ = s.Current()
	require.Equal(t, entry(0, "/"), cur)
}

func TestGoNotifiesSubscribersUntilUnsubscribed(t *testing.T) {
	s := NewStack()
	s.Push(entry(0, "/"))
	s.Push(entry(1, "/results/1"))

	var seen []funnel.NavigationEntry
	unsubscribe := s.Subscribe(func(e funnel.NavigationEntry) {
		seen = append(seen, e)
	})
	require.Equal(t, 1, s.Listeners())

	require.True(t, s.Back())
	require.False(t, s.Back())
	require.True(t, s.Forward())
	require.Equal(t, []funnel.NavigationEntry{entry(0, "/"), entry(1, "/results/1")}, seen)

	unsubscribe()
	unsubscribe()
	require.Equal(t, 0, s.Listeners())
	require.True(t, s.Go(-1))
	require.Len(t, seen, 2)
}

func TestGoIgnoresZeroAndOutOfRange(t *testing.T) {
	s := NewStack()
	require.False(t, s.Go(1))
	s.Push(entry(0, "/"))
	require.False(t, s.Go(0))
	require.False(t, s.Go(2))
	require.Equal(t, 0, s.Index())
}

func TestControllerFollowsNativeNavigation(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stack := NewStack()
	store := funnel.NewFormDataStore(answerstore.NewMemoryStore(0), logger)
	ctrl := funnel.NewController(store, stack, logger)
	require.NoError(t, ctrl.Mount(ctx, "/"))
	defer ctrl.Close()

	answers := funnel.Answers{
		Gender:         funnel.GenderFemale,
		BodyFatPercent: 30,
		BMI:            24,
		CalorieTarget:  1800,
		WaterIntake:    8,
		WeightLossRate: 1,
		SeeResultsDays: 21,
	}
	require.NoError(t, ctrl.Advance(ctx, &answers))
	require.NoError(t, ctrl.Advance(ctx, nil))
	require.Equal(t, funnel.Step(2), ctrl.Step())
	require.Equal(t, 3, stack.Len())

	require.True(t, stack.Back())
	require.Equal(t, funnel.Step(1), ctrl.Step())
	require.Equal(t, "/results/1", ctrl.Path())
	require.Equal(t, 3, stack.Len())

	require.True(t, stack.Back())
	require.Equal(t, funnel.StepForm, ctrl.Step())

	require.True(t, stack.Forward())
	require.True(t, stack.Forward())
	require.Equal(t, funnel.Step(2), ctrl.Step())
	require.Equal(t, 3, stack.Len())

	ctrl.Close()
	require.Equal(t, 0, stack.Listeners())
	require.True(t, stack.Back())
	require.Equal(t, funnel.Step(2), ctrl.Step())
}
