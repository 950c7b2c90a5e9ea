package crm

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	cursorTravelDelay = 600 * time.Millisecond
	finishDelay       = 500 * time.Millisecond
)

// Runner walks a planned sequence against the store: per step it waits the
// lead-in delay, highlights the target, waits the cursor travel time, fires
// the step's command, then waits the trailing delay. A single goroutine per
// run keeps dispatch order identical to step order.
type Runner struct {
	store  *Store
	logger *zap.Logger

	mu        sync.Mutex
	running   bool
	gen       uint64
	stopChan  chan struct{}
	current   string
	completed []string

	onStep func(label, elementID string)
	onIdle func()

	// timeScale shortens every delay by the given factor in tests.
	timeScale float64
}

func NewRunner(store *Store, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{store: store, logger: logger, timeScale: 1}
}

// SetCallbacks registers observers for step starts and for the runner going
// idle. Must be called before Run.
func (r *Runner) SetCallbacks(onStep func(label, elementID string), onIdle func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onStep = onStep
	r.onIdle = onIdle
}

func (r *Runner) SetTimeScale(scale float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if scale > 0 {
		r.timeScale = scale
	}
}

// Run starts walking seq. A sequence already in flight is cancelled first;
// its remaining steps never fire.
func (r *Runner) Run(seq *Sequence) {
	if seq == nil || len(seq.Steps) == 0 {
		return
	}

	r.mu.Lock()
	r.stopLocked()
	r.gen++
	gen := r.gen
	stop := make(chan struct{})
	r.stopChan = stop
	r.running = true
	r.completed = nil
	r.mu.Unlock()

	r.logger.Info("action sequence started", zap.Int("steps", len(seq.Steps)))
	go r.walk(seq, gen, stop)
}

// Stop cancels the in-flight sequence immediately and clears the highlight
// and step log. Safe to call when nothing is running.
func (r *Runner) Stop() {
	r.mu.Lock()
	r.stopLocked()
	r.gen++
	r.completed = nil
	r.current = ""
	r.mu.Unlock()
	r.store.ClearHighlight()
}

func (r *Runner) stopLocked() {
	if r.stopChan != nil {
		close(r.stopChan)
		r.stopChan = nil
	}
	r.running = false
}

func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Runner) CurrentLabel() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// CompletedSteps returns the labels of steps whose commands have fired
// during the current or most recent run.
func (r *Runner) CompletedSteps() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.completed))
	copy(out, r.completed)
	return out
}

func (r *Runner) walk(seq *Sequence, gen uint64, stop <-chan struct{}) {
	for i, step := range seq.Steps {
		if !r.sleep(step.DelayBefore, stop) {
			return
		}

		r.mu.Lock()
		if r.gen != gen {
			r.mu.Unlock()
			return
		}
		r.current = step.Label
		onStep := r.onStep
		r.mu.Unlock()

		r.store.Highlight(step.ElementID)
		if onStep != nil {
			onStep(step.Label, step.ElementID)
		}
		r.logger.Debug("action step",
			zap.String("label", step.Label),
			zap.String("element", step.ElementID))

		if !r.sleep(cursorTravelDelay, stop) {
			return
		}

		// Dispatch under the lock so a preempting Run cannot advance the
		// generation between the check and the store mutation. Once a new
		// Run returns, commands from the old walk can no longer fire.
		r.mu.Lock()
		if r.gen != gen {
			r.mu.Unlock()
			return
		}
		if i < len(seq.Dispatches) {
			r.store.Dispatch(seq.Dispatches[i])
		}
		r.completed = append(r.completed, step.Label)
		r.mu.Unlock()

		if !r.sleep(step.DelayAfter, stop) {
			return
		}
	}

	if !r.sleep(finishDelay, stop) {
		return
	}

	r.mu.Lock()
	if r.gen != gen {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.current = ""
	r.stopChan = nil
	onIdle := r.onIdle
	r.mu.Unlock()

	r.store.ClearHighlight()
	r.logger.Info("action sequence finished", zap.Int("steps", len(seq.Steps)))
	if onIdle != nil {
		onIdle()
	}
}

// sleep waits d scaled by the configured factor, returning false when the
// run was cancelled.
func (r *Runner) sleep(d time.Duration, stop <-chan struct{}) bool {
	r.mu.Lock()
	scaled := time.Duration(float64(d) * r.timeScale)
	r.mu.Unlock()

	if scaled <= 0 {
		select {
		case <-stop:
			return false
		default:
			return true
		}
	}
	t := time.NewTimer(scaled)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-stop:
		return false
	}
}
