package tracelog

import (
	"strings"
	"testing"
)

func TestLogger_DisabledWritesNothing(t *testing.T) {
	var buf strings.Builder
	l := New(false)
	l.SetOutput(&buf)

	l.Section("tdfa determinisation")
	l.StateCreated(0, 3, true)
	l.BijectionHit(2, 1)

	if buf.Len() != 0 {
		t.Errorf("disabled logger wrote %q, want nothing", buf.String())
	}
}

func TestLogger_Section(t *testing.T) {
	var buf strings.Builder
	l := New(true)
	l.SetOutput(&buf)

	l.Section("tdfa determinisation")

	if got, want := buf.String(), "\n[taglex] === tdfa determinisation ===\n"; got != want {
		t.Errorf("Section() wrote %q, want %q", got, want)
	}
}

func TestLogger_StateCreated(t *testing.T) {
	tests := []struct {
		name    string
		idx     int
		numCfgs int
		isStart bool
		want    string
	}{
		{name: "start state", idx: 0, numCfgs: 3, isStart: true, want: "[taglex] created state 0 (start), 3 configurations\n"},
		{name: "non-start state", idx: 4, numCfgs: 2, isStart: false, want: "[taglex] created state 4, 2 configurations\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			l := New(true)
			l.SetOutput(&buf)

			l.StateCreated(tt.idx, tt.numCfgs, tt.isStart)

			if got := buf.String(); got != tt.want {
				t.Errorf("StateCreated() wrote %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogger_BijectionHit(t *testing.T) {
	tests := []struct {
		name           string
		reusedState    int
		fallbackCopies int
		want           string
	}{
		{name: "clean bijection", reusedState: 5, fallbackCopies: 0, want: "[taglex] bijection match: reusing state 5\n"},
		{name: "bijection with fallback copies", reusedState: 5, fallbackCopies: 2, want: "[taglex] bijection match: reusing state 5 with 2 fallback copies\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			l := New(true)
			l.SetOutput(&buf)

			l.BijectionHit(tt.reusedState, tt.fallbackCopies)

			if got := buf.String(); got != tt.want {
				t.Errorf("BijectionHit() wrote %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogger_Enabled(t *testing.T) {
	if New(true).Enabled() != true {
		t.Error("Enabled() = false, want true")
	}
	if New(false).Enabled() != false {
		t.Error("Enabled() = true, want false")
	}
}
