package funnel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/ketoslim-funnel/pkg/errors"
)

type controllerFixture struct {
	ctrl    *Controller
	storage *stubStorage
	history *fakeHistory
}

func newControllerFixture(t *testing.T, path string) controllerFixture {
	t.Helper()
	storage := newStubStorage()
	history := newFakeHistory()
	ctrl := NewController(NewFormDataStore(storage, newTestLogger()), history, newTestLogger())
	require.NoError(t, ctrl.Mount(context.Background(), path))
	t.Cleanup(ctrl.Close)
	return controllerFixture{ctrl: ctrl, storage: storage, history: history}
}

func advanceTo(t *testing.T, ctrl *Controller, step Step) {
	t.Helper()
	ctx := context.Background()
	answers := completeAnswers()
	for ctrl.Step() < step {
		var data *Answers
		if ctrl.Step() == StepForm {
			data = &answers
		}
		require.NoError(t, ctrl.Advance(ctx, data))
	}
	require.Equal(t, step, ctrl.Step())
}

func TestViewForEveryStep(t *testing.T) {
	f := newControllerFixture(t, "/")
	cards := DeriveCards(f.ctrl.Answers())

	for s := Step(0); s <= StepOffer; s++ {
		f.ctrl.GoToStep(s)
		view := f.ctrl.View()
		require.Equal(t, s, view.Step)
		path, _ := PathForStep(s)
		require.Equal(t, path, view.Path)
		switch {
		case s == StepForm:
			require.Equal(t, ScreenForm, view.Screen)
			require.Nil(t, view.Card)
		case s == StepOffer:
			require.Equal(t, ScreenOffer, view.Screen)
			require.Nil(t, view.Card)
			require.Nil(t, view.PrevTitle)
		default:
			require.Equal(t, ScreenResult, view.Screen)
			require.Equal(t, cards[s-1], *view.Card)
			require.Equal(t, &Progress{Current: int(s), Total: CardCount}, view.Progress)
		}
	}

	for _, s := range []Step{-1, 8, 100} {
		f.ctrl.GoToStep(s)
		view := f.ctrl.View()
		require.Equal(t, ScreenNone, view.Screen)
		require.Nil(t, view.Card)
		require.Nil(t, view.PrevTitle)
		require.Nil(t, view.Progress)
	}
}

func TestViewIndexesCardsFromOne(t *testing.T) {
	f := newControllerFixture(t, "/")
	advanceTo(t, f.ctrl, 3)
	cards := DeriveCards(completeAnswers())

	view := f.ctrl.View()
	require.Equal(t, cards[2], *view.Card)
	require.NotNil(t, view.PrevTitle)
	require.Equal(t, cards[1].Title, *view.PrevTitle)

	f.ctrl.GoToStep(1)
	view = f.ctrl.View()
	require.Equal(t, cards[0], *view.Card)
	require.Nil(t, view.PrevTitle)
}

func TestAdvanceFromFormPersistsAnswers(t *testing.T) {
	f := newControllerFixture(t, "/")
	answers := completeAnswers()

	require.NoError(t, f.ctrl.Advance(context.Background(), &answers))
	require.Equal(t, Step(1), f.ctrl.Step())
	require.Equal(t, "/results/1", f.ctrl.Path())

	loaded, err := NewFormDataStore(f.storage, newTestLogger()).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, answers, loaded)
}

func TestAdvanceFromFormRequiresCompleteAnswers(t *testing.T) {
	f := newControllerFixture(t, "/")
	partial := Answers{Gender: GenderMale, BodyFatPercent: 20}

	err := f.ctrl.Advance(context.Background(), &partial)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	err = f.ctrl.Advance(context.Background(), nil)
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	require.Equal(t, StepForm, f.ctrl.Step())
	require.Zero(t, f.storage.sets)
	require.Zero(t, f.history.pushes)
}

func TestAdvanceFromFormStorageFailureLeavesState(t *testing.T) {
	f := newControllerFixture(t, "/")
	f.storage.setErr = errors.New("disk full")
	answers := completeAnswers()

	err := f.ctrl.Advance(context.Background(), &answers)
	require.True(t, apperrors.IsCode(err, "storage_error"))
	require.Equal(t, StepForm, f.ctrl.Step())
	require.Zero(t, f.history.pushes)
}

func TestAdvanceFromResultsIgnoresData(t *testing.T) {
	f := newControllerFixture(t, "/")
	advanceTo(t, f.ctrl, 2)
	sets := f.storage.sets

	other := Answers{Gender: GenderMale, BodyFatPercent: 10, BMI: 20, CalorieTarget: 2000, WaterIntake: 8, WeightLossRate: 1, SeeResultsDays: 7}
	require.NoError(t, f.ctrl.Advance(context.Background(), &other))
	require.Equal(t, Step(3), f.ctrl.Step())
	require.Equal(t, completeAnswers(), f.ctrl.Answers())
	require.Equal(t, sets, f.storage.sets)
}

func TestAdvanceThroughToOfferThenStops(t *testing.T) {
	f := newControllerFixture(t, "/")
	advanceTo(t, f.ctrl, StepLastCard)

	require.NoError(t, f.ctrl.Advance(context.Background(), nil))
	require.Equal(t, StepOffer, f.ctrl.Step())
	require.Equal(t, "/sales", f.ctrl.Path())

	pushes := f.history.pushes
	require.NoError(t, f.ctrl.Advance(context.Background(), nil))
	require.Equal(t, StepOffer, f.ctrl.Step())
	require.Equal(t, pushes, f.history.pushes)
}

func TestAdvanceThenRetreatRoundTrip(t *testing.T) {
	for k := Step(2); k <= StepLastCard; k++ {
		f := newControllerFixture(t, "/")
		advanceTo(t, f.ctrl, k)
		before := f.ctrl.Answers()

		f.ctrl.Retreat()
		require.Equal(t, k-1, f.ctrl.Step())
		require.Equal(t, before, f.ctrl.Answers())
	}
}

func TestRetreatEdges(t *testing.T) {
	f := newControllerFixture(t, "/")
	f.ctrl.Retreat()
	require.Equal(t, StepForm, f.ctrl.Step())
	require.Zero(t, f.history.pushes)

	advanceTo(t, f.ctrl, 1)
	f.ctrl.Retreat()
	require.Equal(t, StepForm, f.ctrl.Step())
	require.Equal(t, "/", f.ctrl.Path())
	require.Equal(t, completeAnswers(), f.ctrl.Answers())
}

func TestRetreatFromOfferKeepsAnswers(t *testing.T) {
	f := newControllerFixture(t, "/")
	advanceTo(t, f.ctrl, StepOffer)

	f.ctrl.Retreat()
	require.Equal(t, StepLastCard, f.ctrl.Step())
	require.Equal(t, completeAnswers(), f.ctrl.Answers())
	_, present := f.storage.values[StorageKey]
	require.True(t, present)
}

func TestDeclineClearsAnswers(t *testing.T) {
	f := newControllerFixture(t, "/")
	advanceTo(t, f.ctrl, StepOffer)

	require.NoError(t, f.ctrl.Decline(context.Background()))
	require.Equal(t, StepForm, f.ctrl.Step())
	require.Equal(t, "/", f.ctrl.Path())
	require.Equal(t, DefaultAnswers(), f.ctrl.Answers())

	_, present := f.storage.values[StorageKey]
	require.False(t, present)
	loaded, err := NewFormDataStore(f.storage, newTestLogger()).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, DefaultAnswers(), loaded)
}

func TestDeclineStorageFailureLeavesState(t *testing.T) {
	f := newControllerFixture(t, "/")
	advanceTo(t, f.ctrl, StepOffer)
	f.storage.delErr = errors.New("timeout")

	require.Error(t, f.ctrl.Decline(context.Background()))
	require.Equal(t, StepOffer, f.ctrl.Step())
	require.Equal(t, completeAnswers(), f.ctrl.Answers())
}

func TestGoToStepIsIdempotent(t *testing.T) {
	f := newControllerFixture(t, "/")
	advanceTo(t, f.ctrl, 2)
	pushes := f.history.pushes

	f.ctrl.GoToStep(2)
	f.ctrl.GoToStep(2)
	require.Equal(t, pushes, f.history.pushes)
	require.Equal(t, Step(2), f.ctrl.Step())
}

func TestNativeBackAdoptsEntryWithoutPushing(t *testing.T) {
	f := newControllerFixture(t, "/")
	advanceTo(t, f.ctrl, 4)
	require.Len(t, f.history.entries, 5)
	pushes := f.history.pushes

	require.True(t, f.history.back())
	require.Equal(t, Step(3), f.ctrl.Step())
	require.Equal(t, "/results/3", f.ctrl.Path())
	require.Equal(t, pushes, f.history.pushes)
	require.Len(t, f.history.entries, 5)

	require.True(t, f.history.back())
	require.Equal(t, Step(2), f.ctrl.Step())

	require.True(t, f.history.forward())
	require.True(t, f.history.forward())
	require.Equal(t, Step(4), f.ctrl.Step())
	require.False(t, f.history.forward())
}

func TestAdvanceAfterBackDropsForwardEntries(t *testing.T) {
	f := newControllerFixture(t, "/")
	advanceTo(t, f.ctrl, 4)
	require.True(t, f.history.back())
	require.True(t, f.history.back())

	require.NoError(t, f.ctrl.Advance(context.Background(), nil))
	require.Equal(t, Step(3), f.ctrl.Step())
	require.Len(t, f.history.entries, 4)
	require.False(t, f.history.forward())
}

func TestMountResolvesStepFromPath(t *testing.T) {
	storage := newStubStorage()
	require.NoError(t, NewFormDataStore(storage, newTestLogger()).Save(context.Background(), completeAnswers()))

	history := newFakeHistory()
	ctrl := NewController(NewFormDataStore(storage, newTestLogger()), history, newTestLogger())
	require.NoError(t, ctrl.Mount(context.Background(), "/results/5"))
	defer ctrl.Close()

	require.Equal(t, Step(5), ctrl.Step())
	require.Equal(t, completeAnswers(), ctrl.Answers())
	cur, ok := history.Current()
	require.True(t, ok)
	require.Equal(t, NavigationEntry{Step: 5, Path: "/results/5"}, cur)
	require.Zero(t, history.pushes)
}

func TestMountOutOfRangePathRendersNothing(t *testing.T) {
	f := newControllerFixture(t, "/results/9")

	require.Equal(t, StepInvalid, f.ctrl.Step())
	view := f.ctrl.View()
	require.Equal(t, ScreenNone, view.Screen)
	require.Equal(t, "/results/9", view.Path)
	require.Nil(t, view.Card)

	require.NoError(t, f.ctrl.Advance(context.Background(), nil))
	f.ctrl.Retreat()
	require.Equal(t, StepInvalid, f.ctrl.Step())
	require.Zero(t, f.history.pushes)
}

func TestMountTwiceFails(t *testing.T) {
	f := newControllerFixture(t, "/")
	err := f.ctrl.Mount(context.Background(), "/")
	require.True(t, apperrors.IsCode(err, "already_mounted"))
	require.Len(t, f.history.listeners, 1)
}

func TestMountStorageFailureDoesNotSubscribe(t *testing.T) {
	storage := newStubStorage()
	storage.getErr = errors.New("down")
	history := newFakeHistory()
	ctrl := NewController(NewFormDataStore(storage, newTestLogger()), history, newTestLogger())

	require.Error(t, ctrl.Mount(context.Background(), "/"))
	require.False(t, ctrl.Mounted())
	require.Empty(t, history.listeners)
}

func TestCloseReleasesSubscription(t *testing.T) {
	storage := newStubStorage()
	history := newFakeHistory()
	for i := 0; i < 3; i++ {
		ctrl := NewController(NewFormDataStore(storage, newTestLogger()), history, newTestLogger())
		require.NoError(t, ctrl.Mount(context.Background(), "/"))
		ctrl.Close()
		ctrl.Close()
		require.False(t, ctrl.Mounted())
	}
	require.Empty(t, history.listeners)
}

func TestVisitPushesNewPathAndReloadsCurrent(t *testing.T) {
	f := newControllerFixture(t, "/")
	advanceTo(t, f.ctrl, 2)
	pushes := f.history.pushes

	f.ctrl.Visit("/results/2")
	require.Equal(t, Step(2), f.ctrl.Step())
	require.Equal(t, pushes, f.history.pushes)

	f.ctrl.Visit("/sales")
	require.Equal(t, StepOffer, f.ctrl.Step())
	require.Equal(t, pushes+1, f.history.pushes)

	f.ctrl.Visit("/results/42")
	require.Equal(t, StepInvalid, f.ctrl.Step())
	require.Equal(t, "/results/42", f.ctrl.Path())

	require.True(t, f.history.back())
	require.Equal(t, StepOffer, f.ctrl.Step())
}
