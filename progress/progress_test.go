package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/kernelsim/internal/clock"
)

func TestProgress_Update(t *testing.T) {
	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock.NowFunc = func() time.Time { return started }
	defer func() { clock.NowFunc = time.Now }()

	var changes []Counters
	ctx, tracker := WithNewTracker(context.Background(), "run-1", "rr.json", 3, func(p Counters) {
		changes = append(changes, p)
	})

	UpdateCtx(ctx, Delta{Arrived: 1})
	UpdateCtx(ctx, Delta{Arrived: 2})
	UpdateCtx(ctx, Delta{Dropped: 1})
	UpdateCtx(ctx, Delta{Exited: 1, VirtualTime: 150})

	snapshot, ok := GetSnapshot(ctx)
	assert.True(t, ok)
	assert.Equal(t, started, snapshot.StartedAt)
	assert.Equal(t, "run-1", snapshot.RunID)
	assert.Equal(t, 3, snapshot.ArrivedProcesses)
	assert.Equal(t, 1, snapshot.Active())
	assert.False(t, snapshot.Done())
	assert.Equal(t, 150, snapshot.VirtualTime)
	assert.Len(t, changes, 4)
	assert.Equal(t, 3, changes[1].Active())

	tracker.Update(Delta{Trapped: 1})
	assert.True(t, tracker.Snapshot().Done())
	assert.True(t, changes[len(changes)-1].Done())
}

func TestProgress_Concurrent(t *testing.T) {
	_, tracker := WithNewTracker(context.Background(), "run", "batch", 100, nil)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Update(Delta{Arrived: 1, Exited: 1})
		}()
	}
	wg.Wait()
	assert.True(t, tracker.Snapshot().Done())
}

func TestProgress_Nil(t *testing.T) {
	var tracker *Progress
	tracker.Update(Delta{Arrived: 1})
	tracker.OnChange(nil)
	assert.Equal(t, Counters{}, tracker.Snapshot())
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
	UpdateCtx(context.Background(), Delta{Arrived: 1})
}
