package pivot

import (
	"fmt"

	"github.com/jwtly10/pivotbook/internal/logging"
	"github.com/jwtly10/pivotbook/internal/types"
)

var windowLog = logging.New("window")

// Window holds the last N bars seen, oldest first.
type Window struct {
	size int
	bars []types.Bar
	full bool
}

func NewWindow(size int) (*Window, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindow, size)
	}
	return &Window{
		size: size,
		bars: make([]types.Bar, 0, size),
	}, nil
}

// Push appends bar, evicting the oldest one once the window is at capacity.
func (w *Window) Push(bar types.Bar) {
	w.bars = append(w.bars, bar)
	if len(w.bars) > w.size {
		w.bars = w.bars[1:]
	}
	if !w.full && len(w.bars) == w.size {
		w.full = true
		windowLog.Debug("Window filled", "size", w.size, "timestamp", bar.Timestamp)
	}
}

// Full reports whether N bars have been pushed. Once true it stays true.
func (w *Window) Full() bool {
	return w.full
}

// Bars returns the buffered bars. Callers must not modify the slice.
func (w *Window) Bars() []types.Bar {
	return w.bars
}

func (w *Window) Len() int {
	return len(w.bars)
}

func (w *Window) Size() int {
	return w.size
}
