package client

import (
	"testing"

	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/wire"
)

func collectEvents(t *testing.T) (*Engine, *[]wire.StrokeEvent) {
	t.Helper()
	var events []wire.StrokeEvent
	e := NewEngine(NewSurface(100, 100), func(ev wire.StrokeEvent) {
		events = append(events, ev)
	})
	return e, &events
}

func TestInkGestureEmitsStartMoveEnd(t *testing.T) {
	e, events := collectEvents(t)

	e.BeginStroke(wire.Position{X: 10, Y: 10})
	e.MoveTo(wire.Position{X: 20, Y: 20})
	e.MoveTo(wire.Position{X: 30, Y: 20})
	e.EndStroke()

	phases := make([]wire.StrokePhase, 0, len(*events))
	for _, ev := range *events {
		phases = append(phases, ev.Phase)
	}
	want := []wire.StrokePhase{wire.StrokeStart, wire.StrokeMove, wire.StrokeMove, wire.StrokeEnd}
	if len(phases) != len(want) {
		t.Fatalf("phases = %v, want %v", phases, want)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phase[%d] = %s, want %s", i, phases[i], want[i])
		}
	}
}

func TestEraseGestureNeverEmits(t *testing.T) {
	e, events := collectEvents(t)
	e.SetTool(ToolErase)

	e.BeginStroke(wire.Position{X: 10, Y: 10})
	e.MoveTo(wire.Position{X: 20, Y: 20})
	e.EndStroke()

	if len(*events) != 0 {
		t.Errorf("erase emitted %d events, want 0", len(*events))
	}
}

func TestMoveOutsideGestureIgnored(t *testing.T) {
	e, events := collectEvents(t)

	e.MoveTo(wire.Position{X: 20, Y: 20})
	e.EndStroke()

	if len(*events) != 0 {
		t.Errorf("idle engine emitted %d events", len(*events))
	}
	if e.surface.At(20, 20).A != 0 {
		t.Error("idle move painted the surface")
	}
}

func TestCancelBehavesLikeEnd(t *testing.T) {
	e, events := collectEvents(t)

	e.BeginStroke(wire.Position{X: 10, Y: 10})
	e.CancelStroke()

	last := (*events)[len(*events)-1]
	if last.Phase != wire.StrokeEnd {
		t.Errorf("cancel emitted %s, want end", last.Phase)
	}

	// The gesture is closed; further moves are ignored.
	before := len(*events)
	e.MoveTo(wire.Position{X: 50, Y: 50})
	if len(*events) != before {
		t.Error("move after cancel emitted an event")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	e, _ := collectEvents(t)

	if e.Undo() {
		t.Error("undo on empty history reported success")
	}

	e.BeginStroke(wire.Position{X: 10, Y: 10})
	e.MoveTo(wire.Position{X: 40, Y: 40})
	e.EndStroke()

	if e.surface.At(25, 25).A == 0 {
		t.Fatal("stroke left no pixels")
	}

	if !e.Undo() {
		t.Fatal("undo failed with one capture on the stack")
	}
	if e.surface.At(25, 25).A != 0 {
		t.Error("undo left stroke pixels behind")
	}

	if !e.Redo() {
		t.Fatal("redo failed after undo")
	}
	if e.surface.At(25, 25).A == 0 {
		t.Error("redo did not restore the stroke")
	}

	if e.Redo() {
		t.Error("redo on empty stack reported success")
	}
}

func TestNewGestureClearsRedo(t *testing.T) {
	e, _ := collectEvents(t)

	e.BeginStroke(wire.Position{X: 10, Y: 10})
	e.MoveTo(wire.Position{X: 20, Y: 10})
	e.EndStroke()
	e.Undo()

	e.BeginStroke(wire.Position{X: 50, Y: 50})
	e.MoveTo(wire.Position{X: 60, Y: 50})
	e.EndStroke()

	if e.Redo() {
		t.Error("redo survived a fresh gesture")
	}
}

func TestHistoryBoundedAtLimit(t *testing.T) {
	e, _ := collectEvents(t)

	for i := 0; i < historyLimit+10; i++ {
		e.BeginStroke(wire.Position{X: float64(i), Y: 1})
		e.EndStroke()
	}

	undos := 0
	for e.Undo() {
		undos++
	}
	if undos != historyLimit {
		t.Errorf("undo depth = %d, want %d", undos, historyLimit)
	}
}

func TestHistoryStacksIndependentPerEngine(t *testing.T) {
	// Two engines (two participants) never share history.
	engines := make([]*Engine, 2)
	for i := range engines {
		engines[i] = NewEngine(NewSurface(10, 10), nil)
	}

	engines[0].BeginStroke(wire.Position{X: 1, Y: 1})
	engines[0].EndStroke()

	if engines[1].Undo() {
		t.Error("second engine undid the first engine's gesture")
	}
	if !engines[0].Undo() {
		t.Error("first engine lost its own capture")
	}
}

func TestEraseRemovesLocalPixels(t *testing.T) {
	e, _ := collectEvents(t)

	e.BeginStroke(wire.Position{X: 10, Y: 10})
	e.MoveTo(wire.Position{X: 40, Y: 10})
	e.EndStroke()

	e.SetTool(ToolErase)
	e.SetWidth(20)
	e.BeginStroke(wire.Position{X: 5, Y: 10})
	e.MoveTo(wire.Position{X: 45, Y: 10})
	e.EndStroke()

	for _, x := range []int{10, 25, 40} {
		if a := e.surface.At(x, 10).A; a != 0 {
			t.Errorf("pixel (%d,10) alpha = %d after erase, want 0", x, a)
		}
	}
}

func TestHistoryDepths(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 3; i++ {
		h.PushUndo(NewSurface(1, 1))
	}
	h.PushRedo(NewSurface(1, 1))

	if u, r := h.Depths(); u != 3 || r != 1 {
		t.Errorf("depths = (%d,%d), want (3,1)", u, r)
	}

	h.ClearRedo()
	if _, r := h.Depths(); r != 0 {
		t.Errorf("redo depth = %d after clear, want 0", r)
	}

	if _, ok := h.PopRedo(); ok {
		t.Error("pop on cleared redo stack succeeded")
	}
}
