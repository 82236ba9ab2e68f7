package client

import (
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/wire"
)

// Tool selects how a gesture touches the local surface.
type Tool int

const (
	ToolInk Tool = iota
	ToolErase
)

// Engine owns the local authoring surface. It runs a gesture state machine
// (idle -> active on input-begin, back on input-end/cancel), emits stroke
// events for the ink tool only, and keeps the undo/redo history.
//
// Erase gestures change the local surface but are never emitted, so one
// participant's erase cannot destroy another's work remotely.
type Engine struct {
	surface *Surface
	history *History
	emit    func(wire.StrokeEvent)

	tool  Tool
	color string
	width float64

	active bool
	last   wire.Position
}

// NewEngine attaches an engine to its surface. emit receives outbound
// stroke events and may be nil for a detached (offline) engine.
func NewEngine(surface *Surface, emit func(wire.StrokeEvent)) *Engine {
	return &Engine{
		surface: surface,
		history: NewHistory(),
		emit:    emit,
		tool:    ToolInk,
		color:   "#000000",
		width:   5,
	}
}

func (e *Engine) SetTool(t Tool)      { e.tool = t }
func (e *Engine) SetColor(hex string) { e.color = hex }
func (e *Engine) SetWidth(w float64)  { e.width = w }
func (e *Engine) Surface() *Surface   { return e.surface }

// BeginStroke transitions idle -> active: the pre-gesture surface goes onto
// the undo stack and the redo stack is invalidated. Begin while active is
// ignored (a second pointer press mid-gesture).
func (e *Engine) BeginStroke(pos wire.Position) {
	if e.active {
		return
	}
	e.active = true
	e.last = pos

	e.history.PushUndo(e.surface.Clone())
	e.history.ClearRedo()

	if e.tool == ToolInk {
		e.send(wire.StrokeStart, pos)
	}
}

// MoveTo extends the active gesture by one segment.
func (e *Engine) MoveTo(pos wire.Position) {
	if !e.active {
		return
	}

	switch e.tool {
	case ToolInk:
		e.surface.DrawSegment(e.last, pos, e.color, e.width)
		e.send(wire.StrokeMove, pos)
	case ToolErase:
		e.surface.EraseSegment(e.last, pos, e.width)
	}
	e.last = pos
}

// EndStroke closes the gesture. Input-cancel is treated identically.
func (e *Engine) EndStroke() {
	if !e.active {
		return
	}
	e.active = false

	if e.tool == ToolInk {
		e.send(wire.StrokeEnd, e.last)
	}
}

// CancelStroke is an alias for EndStroke; cancellation is implicit.
func (e *Engine) CancelStroke() {
	e.EndStroke()
}

// Undo restores the most recent capture, moving the current surface onto
// the redo stack. Returns false when there is nothing to undo.
func (e *Engine) Undo() bool {
	prev, ok := e.history.PopUndo()
	if !ok {
		return false
	}
	e.history.PushRedo(e.surface.Clone())
	e.surface.Restore(prev)
	return true
}

// Redo mirrors Undo.
func (e *Engine) Redo() bool {
	next, ok := e.history.PopRedo()
	if !ok {
		return false
	}
	e.history.PushUndo(e.surface.Clone())
	e.surface.Restore(next)
	return true
}

func (e *Engine) send(phase wire.StrokePhase, pos wire.Position) {
	if e.emit == nil {
		return
	}
	e.emit(wire.StrokeEvent{
		Phase: phase,
		Pos:   pos,
		Color: e.color,
		Width: e.width,
	})
}
