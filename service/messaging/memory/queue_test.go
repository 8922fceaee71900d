package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testJob struct {
	ScenarioURL string
	LogURL      string
}

func TestQueue(t *testing.T) {
	queue := NewQueue[testJob](DefaultConfig())
	ctx := context.Background()
	payload := testJob{ScenarioURL: "rr.json", LogURL: "rr.log"}

	require.NoError(t, queue.Publish(ctx, &payload))
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, queue.Size())
	assert.NotEmpty(t, message.ID())
	assert.Equal(t, payload, *message.T())

	assert.NoError(t, message.Ack())
	assert.Error(t, message.Ack())
	assert.Error(t, message.Nack(nil))
}

func TestQueueRetries(t *testing.T) {
	config := DefaultConfig()
	config.MaxRetries = 2
	config.RetryDelay = 5 * time.Millisecond
	queue := NewQueue[testJob](config)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, queue.Publish(ctx, &testJob{ScenarioURL: "retry.json"}))
	var id string
	for attempt := 1; attempt <= 3; attempt++ {
		message, err := queue.Consume(ctx)
		require.NoError(t, err)
		if id == "" {
			id = message.ID()
		}
		assert.Equal(t, id, message.ID())
		assert.Equal(t, attempt, message.(*Message[testJob]).Attempts())
		assert.NoError(t, message.Nack(errors.New("boom")))
	}

	assert.Eventually(t, func() bool { return queue.DLQSize() == 1 }, time.Second, time.Millisecond)
	letters := queue.DeadLetters()
	assert.Equal(t, "retry.json", letters[0].Payload.ScenarioURL)
	assert.Equal(t, 3, letters[0].Attempts)
	assert.EqualError(t, letters[0].Err, "boom")
	assert.Equal(t, 0, queue.Size())
}

func TestQueueNoRetries(t *testing.T) {
	config := DefaultConfig()
	config.MaxRetries = 0
	queue := NewQueue[testJob](config)
	ctx := context.Background()
	require.NoError(t, queue.Publish(ctx, &testJob{}))
	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.NoError(t, message.Nack(errors.New("invalid scenario")))
	assert.Equal(t, 1, queue.DLQSize())
	assert.Equal(t, 0, queue.Size())
}

func TestQueueConcurrency(t *testing.T) {
	queue := NewQueue[testJob](DefaultConfig())
	ctx := context.Background()
	concurrency := 10
	messagesPerProducer := 10

	var wg sync.WaitGroup
	wg.Add(concurrency * 2)
	var consumedCount int
	var consumedMu sync.Mutex

	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < messagesPerProducer; j++ {
				message, err := queue.Consume(ctx)
				if err != nil {
					t.Errorf("error consuming: %v", err)
					return
				}
				assert.NoError(t, message.Ack())
				consumedMu.Lock()
				consumedCount++
				consumedMu.Unlock()
			}
		}()
	}
	for i := 0; i < concurrency; i++ {
		go func(producerID int) {
			defer wg.Done()
			for j := 0; j < messagesPerProducer; j++ {
				payload := testJob{ScenarioURL: fmt.Sprintf("p%d-m%d.json", producerID, j)}
				if err := queue.Publish(ctx, &payload); err != nil {
					t.Errorf("error publishing: %v", err)
				}
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("test timed out")
	}
	assert.Equal(t, concurrency*messagesPerProducer, consumedCount)
	assert.Equal(t, 0, queue.Size())
}

func TestQueueContextCancellation(t *testing.T) {
	queue := NewQueue[testJob](DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	payload := testJob{ScenarioURL: "test"}
	assert.Error(t, queue.Publish(ctx, &payload))

	ctxWithTimeout, cancelTimeout := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancelTimeout()
	_, err := queue.Consume(ctxWithTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.NoError(t, queue.Publish(context.Background(), &payload))
	message, err := queue.Consume(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, message)
}
