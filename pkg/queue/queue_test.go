package queue_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gearshop/pkg/queue"
)

// ─── Job types ────────────────────────────────────────────────────────────────

var (
	receiptsWritten atomic.Int32
	bounceAttempts  atomic.Int32
)

// receiptJob mimics the confirmation-mail job: carries serializable fields and
// records that it ran.
type receiptJob struct {
	OrderID uint   `json:"order_id"`
	Email   string `json:"email"`
}

func (j *receiptJob) Handle() error {
	receiptsWritten.Add(1)
	return nil
}

// bounceJob always fails, to exercise retry and the failed-job log.
type bounceJob struct {
	OrderID uint `json:"order_id"`
}

func (j *bounceJob) Handle() error {
	bounceAttempts.Add(1)
	return errors.New("mailbox unavailable")
}

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	_ = cancel
	queue.StartWorkers(ctx, 2)

	queue.Register("*queue_test.receiptJob", func() queue.Job { return &receiptJob{} })
	queue.Register("*queue_test.bounceJob", func() queue.Job { return &bounceJob{} })
}

// ─── Tests ────────────────────────────────────────────────────────────────────

func TestDispatchRoundTripsPayload(t *testing.T) {
	before := receiptsWritten.Load()

	if err := queue.Dispatch(&receiptJob{OrderID: 7, Email: "a@b.test"}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for receiptsWritten.Load() == before {
		if time.Now().After(deadline) {
			t.Fatal("job was never processed")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestExhaustedRetriesLandInFailedJobs(t *testing.T) {
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	if err := queue.Dispatch(&bounceJob{OrderID: 8}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	// 1 attempt + 1s backoff + slack.
	time.Sleep(2500 * time.Millisecond)

	if bounceAttempts.Load() == 0 {
		t.Error("job handler was never invoked")
	}
	if len(queue.FailedJobs()) == 0 {
		t.Error("expected the exhausted job in the failed log")
	}
}

func TestConcurrentDispatch(t *testing.T) {
	before := receiptsWritten.Load()

	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		go func(n int) {
			defer wg.Done()
			queue.Dispatch(&receiptJob{OrderID: uint(n)}) //nolint:errcheck
		}(i)
	}
	wg.Wait()

	deadline := time.Now().Add(3 * time.Second)
	for receiptsWritten.Load() < before+20 {
		if time.Now().After(deadline) {
			t.Fatalf("processed %d of 20 dispatched jobs", receiptsWritten.Load()-before)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestDispatchAfterDoesNotBlock(t *testing.T) {
	start := time.Now()
	queue.DispatchAfter(&receiptJob{OrderID: 9}, 100*time.Millisecond)

	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("DispatchAfter blocked for %v", elapsed)
	}
	time.Sleep(300 * time.Millisecond)
}
