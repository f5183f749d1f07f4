package funnel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathForStep(t *testing.T) {
	cases := map[Step]string{
		0: "/",
		1: "/results/1",
		6: "/results/6",
		7: "/sales",
	}
	for step, want := range cases {
		got, ok := PathForStep(step)
		require.True(t, ok, "step %d", step)
		require.Equal(t, want, got)
		require.Equal(t, step, ResolvePath(got))
	}
	for _, step := range []Step{-1, 8, 42} {
		_, ok := PathForStep(step)
		require.False(t, ok, "step %d", step)
	}
}

func TestResolvePath(t *testing.T) {
	cases := []struct {
		path string
		step Step
	}{
		{"", StepForm},
		{"/", StepForm},
		{"/results/3", 3},
		{"/results/3/", 3},
		{"/sales/", StepOffer},
		{"/results/0", StepInvalid},
		{"/results/7", StepInvalid},
		{"/results/99", StepInvalid},
		{"/results/abc", StepInvalid},
		{"/results/", StepInvalid},
		{"/results/2/extra", StepInvalid},
		{"/pricing", StepInvalid},
	}
	for _, tc := range cases {
		require.Equal(t, tc.step, ResolvePath(tc.path), "path %q", tc.path)
	}
}

func TestStepScreens(t *testing.T) {
	require.Equal(t, ScreenForm, Step(0).Screen())
	for s := Step(1); s <= 6; s++ {
		require.Equal(t, ScreenResult, s.Screen())
		require.True(t, s.Valid())
	}
	require.Equal(t, ScreenOffer, Step(7).Screen())
	require.Equal(t, ScreenNone, Step(8).Screen())
	require.Equal(t, ScreenNone, StepInvalid.Screen())
	require.False(t, Step(8).Valid())
}
