package dashboard

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"tarediiran-industries.com/simrail-edr/internal/state"
)

type recordingNavigator struct {
	calls []string
	delta []int
}

func (nav *recordingNavigator) Select() state.Flags {
	nav.calls = append(nav.calls, "select")
	return state.Flags{Refresh: true, Redraw: true}
}

func (nav *recordingNavigator) Back() state.Flags {
	nav.calls = append(nav.calls, "back")
	return state.Flags{Redraw: true}
}

func (nav *recordingNavigator) Cursor(delta int) state.Flags {
	nav.calls = append(nav.calls, "cursor")
	nav.delta = append(nav.delta, delta)
	return state.Flags{Redraw: true}
}

func TestHandleKey(t *testing.T) {
	tests := []struct {
		id    string
		call  string
		delta int
		flags state.Flags
		quit  bool
	}{
		{id: "<Enter>", call: "select", flags: state.Flags{Refresh: true, Redraw: true}},
		{id: "<Escape>", call: "back", flags: state.Flags{Redraw: true}},
		{id: "<Up>", call: "cursor", delta: -1, flags: state.Flags{Redraw: true}},
		{id: "k", call: "cursor", delta: -1, flags: state.Flags{Redraw: true}},
		{id: "<Down>", call: "cursor", delta: 1, flags: state.Flags{Redraw: true}},
		{id: "j", call: "cursor", delta: 1, flags: state.Flags{Redraw: true}},
		{id: "<Resize>", flags: state.Flags{Redraw: true}},
		{id: "x"},
		{id: "q", quit: true},
		{id: "<C-c>", quit: true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			nav := &recordingNavigator{}
			flags, quit := handleKey(nav, tt.id)
			if flags != tt.flags || quit != tt.quit {
				t.Errorf("handleKey(%q) = %+v, %v; want %+v, %v", tt.id, flags, quit, tt.flags, tt.quit)
			}
			if tt.call == "" {
				if len(nav.calls) != 0 {
					t.Errorf("handleKey(%q) called %v", tt.id, nav.calls)
				}
				return
			}
			if len(nav.calls) != 1 || nav.calls[0] != tt.call {
				t.Fatalf("handleKey(%q) calls = %v, want [%s]", tt.id, nav.calls, tt.call)
			}
			if tt.call == "cursor" && nav.delta[0] != tt.delta {
				t.Errorf("handleKey(%q) delta = %d, want %d", tt.id, nav.delta[0], tt.delta)
			}
		})
	}
}

// scriptedModel logs navigation, refresh and draw calls in order.
type scriptedModel struct {
	recordingNavigator
	log        *[]string
	refreshErr error
	onRefresh  func()
}

func (m *scriptedModel) Select() state.Flags {
	*m.log = append(*m.log, "select")
	return m.recordingNavigator.Select()
}

func (m *scriptedModel) Back() state.Flags {
	*m.log = append(*m.log, "back")
	return m.recordingNavigator.Back()
}

func (m *scriptedModel) Cursor(delta int) state.Flags {
	*m.log = append(*m.log, "cursor")
	return m.recordingNavigator.Cursor(delta)
}

func (m *scriptedModel) Refresh(ctx context.Context) error {
	*m.log = append(*m.log, "refresh")
	if m.onRefresh != nil {
		m.onRefresh()
	}
	return m.refreshErr
}

func keys(ids ...string) <-chan ui.Event {
	events := make(chan ui.Event, len(ids))
	for _, id := range ids {
		events <- ui.Event{Type: ui.KeyboardEvent, ID: id}
	}
	return events
}

func TestLoop(t *testing.T) {
	tests := []struct {
		name       string
		keys       []string
		refreshErr error
		want       []string
		wantErr    bool
	}{
		{
			name: "redraw only keys never refresh",
			keys: []string{"<Escape>", "<Up>", "x", "q"},
			want: []string{"draw", "back", "draw", "cursor", "draw"},
		},
		{
			name: "select refreshes once then draws",
			keys: []string{"<Enter>", "q"},
			want: []string{"draw", "select", "refresh", "draw"},
		},
		{
			name:       "refresh error ends the loop",
			keys:       []string{"<Down>", "<Enter>", "<Enter>", "q"},
			refreshErr: errors.New("panel unreachable"),
			want:       []string{"draw", "cursor", "draw", "select", "refresh"},
			wantErr:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log []string
			m := &scriptedModel{log: &log, refreshErr: tt.refreshErr}
			draw := func() { log = append(log, "draw") }

			err := loop(context.Background(), m, draw, keys(tt.keys...), time.Hour)
			if tt.wantErr {
				require.ErrorIs(t, err, tt.refreshErr)
			} else {
				require.NoError(t, err)
			}
			if diff := cmp.Diff(tt.want, log); diff != "" {
				t.Errorf("loop calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoopTimerRefreshes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var log []string
	m := &scriptedModel{log: &log, onRefresh: cancel}
	draw := func() { log = append(log, "draw") }

	require.NoError(t, loop(ctx, m, draw, make(chan ui.Event), time.Millisecond))
	require.GreaterOrEqual(t, len(log), 3)
	require.Equal(t, []string{"draw", "refresh", "draw"}, log[:3])
}

func TestLoopStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var log []string
	m := &scriptedModel{log: &log}
	require.NoError(t, loop(ctx, m, func() { log = append(log, "draw") }, make(chan ui.Event), time.Hour))
	require.Equal(t, []string{"draw"}, log)
}

func TestMainVersion(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := Main("edr-dash", []string{"-version"}, &out, &errOut); code != 0 {
		t.Fatalf("Main(-version) = %d, stderr %q", code, errOut.String())
	}
	if !bytes.Contains(errOut.Bytes(), []byte("edr-dash: version")) {
		t.Errorf("missing version line: %q", errOut.String())
	}
}

func TestParseArgsDefaultsLogOff(t *testing.T) {
	var errOut bytes.Buffer
	cfg, err := ParseArgs("edr-dash", []string{"-refresh", "2"}, &errOut)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.File.LogFile != "-" {
		t.Errorf("LogFile = %q, want -", cfg.File.LogFile)
	}
	if cfg.File.RefreshSeconds != 2 {
		t.Errorf("RefreshSeconds = %v, want 2", cfg.File.RefreshSeconds)
	}
}
