package presenter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"

	"github.com/oshokin/annunciator/internal/annunciation"
	"github.com/oshokin/annunciator/internal/domain/alarm"
)

var errBroken = errors.New("broken")

// fakeLights records every write to the light bank.
type fakeLights struct {
	on     []bool
	writes int
	fail   bool
}

func (f *fakeLights) Len() int { return len(f.on) }

func (f *fakeLights) Set(index int, on bool) error {
	if f.fail {
		return errBroken
	}

	f.writes++
	f.on[index] = on

	return nil
}

// fakeBuzzer records tone directives.
type fakeBuzzer struct {
	playing    physic.Frequency
	directives int
	fail       bool
}

func (f *fakeBuzzer) Tone(freq physic.Frequency) error {
	if f.fail {
		return errBroken
	}

	f.directives++
	f.playing = freq

	return nil
}

func (f *fakeBuzzer) Silence() error {
	return f.Tone(0)
}

// fakeDisplay keeps the last rendered screen.
type fakeDisplay struct {
	lines     []string
	backlight bool
}

func (f *fakeDisplay) Render(lines []string, backlight bool) error {
	f.lines = lines
	f.backlight = backlight

	return nil
}

// newTestPresenter wires a presenter to fresh fakes with n lights.
func newTestPresenter(n int) (*Presenter, *fakeLights, *fakeBuzzer, *fakeDisplay) {
	var (
		lights  = &fakeLights{on: make([]bool, n)}
		buzzer  = new(fakeBuzzer)
		display = new(fakeDisplay)
	)

	return New(lights, buzzer, display, DefaultRows, DefaultCols), lights, buzzer, display
}

// TestAnnunciate_Thermometer checks lights [0,k) on and [k,N) off for every k.
func TestAnnunciate_Thermometer(t *testing.T) {
	t.Parallel()

	const n = 5

	p, lights, _, _ := newTestPresenter(n)

	for k := 0; k <= n; k++ {
		require.NoError(t, p.Annunciate(context.Background(), annunciation.Step{LightCount: k}))

		for i := range n {
			require.Equal(t, i < k, lights.on[i], "k=%d light=%d", k, i)
		}

		// Same k again is a no-op on output.
		writes := lights.writes
		require.NoError(t, p.Annunciate(context.Background(), annunciation.Step{LightCount: k}))
		require.Equal(t, writes, lights.writes)
	}
}

// TestAnnunciate_ToneDirectives checks tone mapping, silence and deduplication.
func TestAnnunciate_ToneDirectives(t *testing.T) {
	t.Parallel()

	p, _, buzzer, _ := newTestPresenter(5)
	ctx := context.Background()

	require.NoError(t, p.Annunciate(ctx, annunciation.Step{ToneIndex: 3}))
	require.Equal(t, 512*physic.Hertz, buzzer.playing)
	require.Equal(t, 1, buzzer.directives)

	require.NoError(t, p.Annunciate(ctx, annunciation.Step{ToneIndex: 3}))
	require.Equal(t, 1, buzzer.directives)

	require.NoError(t, p.Annunciate(ctx, annunciation.Step{ToneIndex: 0}))
	require.Equal(t, physic.Frequency(0), buzzer.playing)
	require.Equal(t, 2, buzzer.directives)

	require.Error(t, p.Annunciate(ctx, annunciation.Step{ToneIndex: 99}))
	require.Equal(t, physic.Frequency(0), buzzer.playing)
}

// TestAnnunciate_DegradesPerChannel checks a broken buzzer does not stop the lights.
func TestAnnunciate_DegradesPerChannel(t *testing.T) {
	t.Parallel()

	p, lights, buzzer, _ := newTestPresenter(5)
	buzzer.fail = true

	err := p.Annunciate(context.Background(), annunciation.Step{LightCount: 2, ToneIndex: 1})
	require.ErrorIs(t, err, ErrPresenterFailure)
	require.ErrorIs(t, err, errBroken)
	require.Equal(t, []bool{true, true, false, false, false}, lights.on)

	// The failed tone is retried once the buzzer recovers.
	buzzer.fail = false
	require.NoError(t, p.Annunciate(context.Background(), annunciation.Step{LightCount: 2, ToneIndex: 1}))
	require.Equal(t, 128*physic.Hertz, buzzer.playing)

	// A failed light write is retried too.
	lights.fail = true
	require.Error(t, p.Annunciate(context.Background(), annunciation.Step{LightCount: 4, ToneIndex: 1}))

	lights.fail = false
	require.NoError(t, p.Annunciate(context.Background(), annunciation.Step{LightCount: 4, ToneIndex: 1}))
	require.Equal(t, []bool{true, true, true, true, false}, lights.on)
}

// TestInvalidate forces a full rewrite on the next step.
func TestInvalidate(t *testing.T) {
	t.Parallel()

	p, lights, buzzer, _ := newTestPresenter(3)

	require.NoError(t, p.Annunciate(context.Background(), annunciation.Step{}))
	require.Equal(t, 3, lights.writes)
	require.Equal(t, 1, buzzer.directives)

	p.Invalidate()

	require.NoError(t, p.Annunciate(context.Background(), annunciation.Step{}))
	require.Equal(t, 6, lights.writes)
	require.Equal(t, 2, buzzer.directives)
}

// TestShowStatus renders through the display and switches the backlight with the level.
func TestShowStatus(t *testing.T) {
	t.Parallel()

	p, _, _, display := newTestPresenter(5)

	require.NoError(t, p.ShowStatus(context.Background(), &alarm.State{Level: alarm.LevelWarning, Message: "HI"}))
	require.True(t, display.backlight)
	require.Equal(t, "LVL: 3 - WARNING", display.lines[0])

	require.NoError(t, p.ShowStatus(context.Background(), &alarm.State{}))
	require.False(t, display.backlight)
}

// TestLayout covers the header row, wrapping and truncation.
func TestLayout(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("0123456789", 8)

	cases := []struct {
		name  string
		state alarm.State
		want  []string
	}{
		{
			name:  "empty message",
			state: alarm.State{},
			want:  []string{"LVL: 0 - OK", "MSG:  None.", "", ""},
		},
		{
			name:  "short muted",
			state: alarm.State{Level: alarm.LevelWarning, Message: "HI", Muted: true},
			want:  []string{"LVL: 3 - WARNING", "MUTED! MSG:", "HI", ""},
		},
		{
			name:  "wraps",
			state: alarm.State{Level: alarm.LevelCritical, Message: "Reactor pressure above limit"},
			want:  []string{"LVL: 4 - CRITICAL", "Reactor pressure abo", "ve limit", ""},
		},
		{
			name:  "truncated",
			state: alarm.State{Level: alarm.LevelPanic, Message: long},
			want:  []string{"LVL: 5 - PANIC", long[:20], long[20:40], long[40:60]},
		},
	}

	for _, tc := range cases {
		got := Layout(&tc.state, DefaultRows, DefaultCols)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("%s: layout mismatch (-want +got):\n%s", tc.name, diff)
		}
	}

	require.Len(t, Layout(&alarm.State{}, 0, 0), 0)
	require.Equal(t, []string{"LVL: 0"}, Layout(&alarm.State{}, 1, 6))
}

// TestSplash fits the start-up screen to the grid.
func TestSplash(t *testing.T) {
	t.Parallel()

	lines := Splash("GPAD v2 with a long model name", "KRAKE", "1.0.0", DefaultCols)
	require.Len(t, lines, DefaultRows)
	require.Equal(t, "GPAD v2 with a long ", lines[0])
	require.Equal(t, "   KRAKE", lines[1])
	require.Equal(t, "Firmware 1.0.0", lines[2])
}

// TestFrequency maps indexes and guards unknown ones.
func TestFrequency(t *testing.T) {
	t.Parallel()

	require.Equal(t, 512*physic.Hertz, Frequency(3))
	require.Zero(t, Frequency(0))
	require.Zero(t, Frequency(-1))
	require.Zero(t, Frequency(len(ToneFrequencies)))
}
