package speech

import (
	"context"
	"testing"
)

func TestBeginAndRelease(t *testing.T) {
	c := NewController()

	ctx, id, release := c.Begin(context.Background())
	if id == "" {
		t.Fatal("expected non-empty id")
	}
	if c.ActiveCount() != 1 {
		t.Fatalf("expected 1 active, got %d", c.ActiveCount())
	}

	release()
	if c.ActiveCount() != 0 {
		t.Fatalf("expected 0 active after release, got %d", c.ActiveCount())
	}
	if ctx.Err() == nil {
		t.Error("expected context cancelled after release")
	}
}

func TestStopAllCancelsInFlight(t *testing.T) {
	c := NewController()

	ctx1, _, release1 := c.Begin(context.Background())
	ctx2, _, release2 := c.Begin(context.Background())
	defer release1()
	defer release2()

	if n := c.StopAll(); n != 2 {
		t.Fatalf("expected 2 stopped, got %d", n)
	}

	if ctx1.Err() != context.Canceled {
		t.Error("expected first synthesis cancelled")
	}
	if ctx2.Err() != context.Canceled {
		t.Error("expected second synthesis cancelled")
	}
}

// A stop must only affect requests that were in flight when it arrived.
// This is the request-scoping regression for the old process-wide flag,
// where a second caller's stop could cancel an unrelated synthesis.
func TestStopDoesNotAffectLaterRequests(t *testing.T) {
	c := NewController()

	ctx1, _, release1 := c.Begin(context.Background())
	defer release1()

	c.StopAll()

	ctx2, _, release2 := c.Begin(context.Background())
	defer release2()

	if ctx1.Err() == nil {
		t.Error("expected in-flight synthesis cancelled")
	}
	if ctx2.Err() != nil {
		t.Error("expected later synthesis unaffected by earlier stop")
	}
}

func TestParentCancellationPropagates(t *testing.T) {
	c := NewController()

	parent, cancel := context.WithCancel(context.Background())
	ctx, _, release := c.Begin(parent)
	defer release()

	cancel()
	if ctx.Err() == nil {
		t.Error("expected parent cancellation to propagate")
	}
}
