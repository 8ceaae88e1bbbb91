package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlightDeduplicatesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var executions atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})

	fn := func() (any, error) {
		executions.Add(1)
		close(entered)
		<-release
		return "payload", nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		val, err, shared := g.Do("feed", fn)
		if err != nil || val != "payload" {
			t.Errorf("leader Do = (%v, %v)", val, err)
		}
		if shared {
			t.Errorf("leader must not report a shared result")
		}
	}()
	<-entered

	const followers = 8
	var shared atomic.Int32
	for i := 0; i < followers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			val, err, wasShared := g.Do("feed", fn)
			if err != nil || val != "payload" {
				t.Errorf("follower Do = (%v, %v)", val, err)
			}
			if wasShared {
				shared.Add(1)
			}
		}()
	}

	// Give followers time to park on the in-flight call before it resolves.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("fn executed %d times, want 1", got)
	}
	if got := shared.Load(); got != followers {
		t.Fatalf("%d followers reported shared results, want %d", got, followers)
	}
}

func TestSingleFlightPropagatesErrors(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	boom := errors.New("boom")

	_, err, _ := g.Do("key", func() (any, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestSingleFlightRunsAgainAfterCompletion(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var executions int

	for i := 0; i < 3; i++ {
		if _, err, _ := g.Do("key", func() (any, error) {
			executions++
			return nil, nil
		}); err != nil {
			t.Fatalf("Do: %v", err)
		}
	}

	if executions != 3 {
		t.Fatalf("sequential calls must each execute, got %d", executions)
	}
}
