package client

// historyLimit bounds both stacks; the oldest capture falls off first.
const historyLimit = 50

// History holds captured local-surface snapshots for undo/redo. It is
// exclusively owned by one client and never transmitted.
type History struct {
	undo []*Surface
	redo []*Surface
}

func NewHistory() *History {
	return &History{}
}

// PushUndo captures a surface state; the redo stack survives (use
// ClearRedo when a fresh gesture invalidates it).
func (h *History) PushUndo(s *Surface) {
	h.undo = appendBounded(h.undo, s)
}

// PushRedo captures the state being undone.
func (h *History) PushRedo(s *Surface) {
	h.redo = appendBounded(h.redo, s)
}

// PopUndo returns the most recent capture, or false when empty.
func (h *History) PopUndo() (*Surface, bool) {
	return pop(&h.undo)
}

// PopRedo mirrors PopUndo for the redo stack.
func (h *History) PopRedo() (*Surface, bool) {
	return pop(&h.redo)
}

// ClearRedo drops redo state; called when new drawing forks history.
func (h *History) ClearRedo() {
	h.redo = nil
}

// Depths reports the current stack sizes.
func (h *History) Depths() (undo, redo int) {
	return len(h.undo), len(h.redo)
}

func appendBounded(stack []*Surface, s *Surface) []*Surface {
	if len(stack) >= historyLimit {
		copy(stack, stack[1:])
		stack = stack[:len(stack)-1]
	}
	return append(stack, s)
}

func pop(stack *[]*Surface) (*Surface, bool) {
	if len(*stack) == 0 {
		return nil, false
	}
	s := (*stack)[len(*stack)-1]
	*stack = (*stack)[:len(*stack)-1]
	return s, true
}
