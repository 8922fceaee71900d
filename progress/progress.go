package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/kernelsim/internal/clock"
)

// Delta represents an incremental counter change emitted by the driver.
type Delta struct {
	Arrived     int
	Exited      int
	Dropped     int
	Trapped     int
	VirtualTime int
}

// Counters is a lock-free copy of a run's process counters.
type Counters struct {
	RunID     string
	Scenario  string
	StartedAt time.Time

	TotalProcesses   int
	ArrivedProcesses int
	ExitedProcesses  int
	DroppedProcesses int
	TrappedProcesses int
	// VirtualTime is the simulated time reached, in microseconds.
	VirtualTime int
}

// Active returns the number of admitted processes still alive.
func (c Counters) Active() int {
	return c.ArrivedProcesses - c.ExitedProcesses - c.DroppedProcesses - c.TrappedProcesses
}

// Done reports whether every declared process has left the system.
func (c Counters) Done() bool {
	return c.ArrivedProcesses == c.TotalProcesses && c.Active() == 0
}

// Progress keeps aggregated process counters for one run. It is safe for
// concurrent use.
type Progress struct {
	Counters
	mu       sync.Mutex
	onChange func(Counters)
}

// Update applies the supplied delta. The onChange callback, if any, runs
// outside the critical section with a copy of the counters.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.mu.Lock()
	p.ArrivedProcesses += d.Arrived
	p.ExitedProcesses += d.Exited
	p.DroppedProcesses += d.Dropped
	p.TrappedProcesses += d.Trapped
	p.VirtualTime += d.VirtualTime
	snapshot := p.Counters
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the counters.
func (p *Progress) Snapshot() Counters {
	if p == nil {
		return Counters{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Counters
}

// OnChange registers a callback invoked after every Update. Passing nil
// disables it.
func (p *Progress) OnChange(cb func(Counters)) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.onChange = cb
	p.mu.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a tracker for a run of total processes, embeds it in
// a derived context and returns both.
func WithNewTracker(ctx context.Context, runID, scenario string, total int, onChange func(Counters)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		Counters: Counters{
			RunID:          runID,
			Scenario:       scenario,
			StartedAt:      clock.Now(),
			TotalProcesses: total,
		},
		onChange: onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// GetSnapshot combines FromContext and Snapshot.
func GetSnapshot(ctx context.Context) (Counters, bool) {
	if tr, ok := FromContext(ctx); ok {
		return tr.Snapshot(), true
	}
	return Counters{}, false
}

// UpdateCtx applies the delta to the tracker carried by ctx, if any.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
