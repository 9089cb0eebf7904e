package systems

import "testing"

func TestClockDeliversInOrder(t *testing.T) {
	c := NewClock()
	var order []int
	c.Subscribe(func(float32) { order = append(order, 1) })
	c.Subscribe(func(float32) { order = append(order, 2) })
	c.Subscribe(func(float32) { order = append(order, 3) })

	c.Tick(1.0 / 60)

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("expected delivery order [1 2 3], got %v", order)
	}
}

func TestClockCancel(t *testing.T) {
	c := NewClock()
	calls := 0
	cancel := c.Subscribe(func(float32) { calls++ })

	c.Tick(1.0 / 60)
	cancel()
	c.Tick(1.0 / 60)

	if calls != 1 {
		t.Fatalf("expected 1 call after cancel, got %d", calls)
	}
}

func TestClockCancelMidTick(t *testing.T) {
	c := NewClock()
	var cancel func()
	first := 0
	second := 0
	cancel = c.Subscribe(func(float32) {
		first++
		cancel()
	})
	c.Subscribe(func(float32) { second++ })

	// The unsubscribing callback must not skip its peer on the same tick.
	c.Tick(1.0 / 60)
	if second != 1 {
		t.Fatalf("peer skipped on cancel tick: got %d calls", second)
	}

	c.Tick(1.0 / 60)
	if first != 1 {
		t.Fatalf("cancelled subscriber still called: got %d calls", first)
	}
	if second != 2 {
		t.Fatalf("expected peer to keep running, got %d calls", second)
	}
}

func TestClockSubscriberSeesDT(t *testing.T) {
	c := NewClock()
	var got float32
	c.Subscribe(func(dt float32) { got = dt })

	c.Tick(0.25)
	if got != 0.25 {
		t.Fatalf("expected dt 0.25, got %v", got)
	}
}
