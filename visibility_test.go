package journey

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type staticBox struct{ b Box }

func (s *staticBox) Box() Box { return s.b }

func TestInView(t *testing.T) {
	tests := []struct {
		name string
		box  Box
		want bool
	}{
		{"inside", Box{Top: 100, Height: 200}, true},
		{"top touches margin", Box{Top: 800, Height: 200}, true},
		{"below margin", Box{Top: 801, Height: 200}, false},
		{"bottom touches margin", Box{Top: -400, Height: 200}, true},
		{"above margin", Box{Top: -401, Height: 200}, false},
		{"spans viewport", Box{Top: -2000, Height: 5000}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InView(tt.box, 600, 200); got != tt.want {
				t.Errorf("InView(%+v) = %v, want %v", tt.box, got, tt.want)
			}
		})
	}
}

type visEvent struct {
	ID      string
	Visible bool
}

func TestVisibilityTrackerTransitions(t *testing.T) {
	var events []visEvent
	tr := NewVisibilityTracker(200, func(id string, v bool) { events = append(events, visEvent{id, v}) })
	a := &staticBox{Box{Top: 0, Height: 600}}
	b := &staticBox{Box{Top: 2000, Height: 600}}
	tr.Observe("a", a)
	tr.Observe("b", b)

	tr.Check(600)
	tr.Check(600)
	want := []visEvent{{"a", true}, {"b", false}}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Fatalf("initial events (-want +got):\n%s", diff)
	}

	events = nil
	a.b.Top, b.b.Top = -1000, 100
	tr.Check(600)
	want = []visEvent{{"a", false}, {"b", true}}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("transition events (-want +got):\n%s", diff)
	}
}

func TestVisibilityTrackerDisconnect(t *testing.T) {
	calls := 0
	tr := NewVisibilityTracker(0, func(string, bool) { calls++ })
	tr.Observe("a", &staticBox{Box{Top: 0, Height: 10}})
	tr.Disconnect()
	tr.Observe("b", &staticBox{})
	tr.Check(600)
	if calls != 0 || tr.Observed() != 0 {
		t.Errorf("calls=%d observed=%d after Disconnect", calls, tr.Observed())
	}
}

func TestVisibleSet(t *testing.T) {
	s := NewVisibleSet()
	s.Add("b")
	s.Add("a")
	s.Add("a")
	if diff := cmp.Diff([]string{"a", "b"}, s.IDs()); diff != "" {
		t.Errorf("IDs (-want +got):\n%s", diff)
	}
	s.Remove("a")
	if s.Has("a") || !s.Has("b") || s.Len() != 1 {
		t.Error("Remove failed")
	}
	s.Clear()
	if s.Len() != 0 {
		t.Error("Clear failed")
	}
}
