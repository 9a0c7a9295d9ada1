package jackhammer

import "testing"

func TestTracker(t *testing.T) {
	tr := NewTracker(0)
	if tr.NextID() != 0 || tr.NextID() != 0 {
		t.Fatal("NextID consumed the id")
	}
	tr.Advance()
	if tr.NextID() != 1 {
		t.Fatalf("NextID = %d after Advance", tr.NextID())
	}
}

func TestTrackerWraps(t *testing.T) {
	tr := NewTracker(0xffff)
	tr.Advance()
	if tr.NextID() != 0 {
		t.Fatalf("NextID = %d, want 0", tr.NextID())
	}
}

func TestLifecycleAdvancesOnlyOnComplete(t *testing.T) {
	tr := NewTracker(10)
	lc := newLifecycle(tr)

	for _, ev := range []string{eventSend, eventAbandon, eventSend, eventReceive, eventAbandon} {
		if err := lc.Event(bg, ev); err != nil {
			t.Fatalf("%s: %v", ev, err)
		}
	}
	if tr.NextID() != 10 {
		t.Fatalf("abandoned exchanges advanced the tracker to %d", tr.NextID())
	}

	for _, ev := range []string{eventSend, eventReceive, eventComplete} {
		if err := lc.Event(bg, ev); err != nil {
			t.Fatalf("%s: %v", ev, err)
		}
	}
	if tr.NextID() != 11 {
		t.Fatalf("NextID = %d, want 11", tr.NextID())
	}
	if lc.Current() != stateIdle {
		t.Fatalf("state = %s", lc.Current())
	}
	if err := lc.Event(bg, eventComplete); err == nil {
		t.Fatal("complete from idle accepted")
	}
}
