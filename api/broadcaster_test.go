package api

import (
	"testing"
	"time"
)

func TestBroadcaster_DeliversToMatchingSubscription(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("job-1", nil)
	defer b.Unsubscribe(sub)

	b.BroadcastProgress("job-1", "firstpass", "t.am", "scanning")

	select {
	case ev := <-sub.Channel:
		if ev.Type != EventTypeProgress || ev.JobID != "job-1" {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBroadcaster_FiltersByJobID(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("job-a", nil)
	defer b.Unsubscribe(sub)

	b.BroadcastProgress("job-b", "firstpass", "t.am", "scanning")

	select {
	case ev := <-sub.Channel:
		t.Fatalf("unexpected event delivered: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBroadcaster_FiltersByEventType(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("", []EventType{EventTypeResult})
	defer b.Unsubscribe(sub)

	b.BroadcastProgress("job-1", "firstpass", "t.am", "scanning")

	select {
	case ev := <-sub.Channel:
		t.Fatalf("unexpected progress event delivered: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}

	b.BroadcastResult("job-1", map[string]interface{}{"success": true})
	select {
	case ev := <-sub.Channel:
		if ev.Type != EventTypeResult {
			t.Fatalf("expected result event, got %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for result event")
	}
}

func TestJobManager_CreateAndDestroy(t *testing.T) {
	jm := NewJobManager(NewBroadcaster())

	job, err := jm.CreateJob()
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if jm.Count() != 1 {
		t.Fatalf("expected 1 job, got %d", jm.Count())
	}

	if _, err := jm.GetJob(job.ID); err != nil {
		t.Fatalf("GetJob: %v", err)
	}

	if err := jm.DestroyJob(job.ID); err != nil {
		t.Fatalf("DestroyJob: %v", err)
	}
	if jm.Count() != 0 {
		t.Fatalf("expected 0 jobs after destroy, got %d", jm.Count())
	}
}

func TestJobManager_GetJobNotFound(t *testing.T) {
	jm := NewJobManager(NewBroadcaster())
	if _, err := jm.GetJob("missing"); err != ErrJobNotFound {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}
