package systems

// TickFunc receives the elapsed simulation time for one frame. A zero dt is
// a valid no-op tick.
type TickFunc func(dtSec float32)

// TickSource delivers per-frame callbacks to subscribers. Subscribe returns
// a cancel function that removes the subscription; callbacks run in
// subscription order on the caller's goroutine.
type TickSource interface {
	Subscribe(fn TickFunc) (cancel func())
}

type clockSub struct {
	id int
	fn TickFunc
}

// Clock is a manual fan-out tick source driven by whoever owns the frame
// loop. All subscribers see the same dt for a given tick, and a tick always
// runs every subscriber to completion before returning.
type Clock struct {
	subs   []clockSub
	nextID int
}

// NewClock creates an empty tick source.
func NewClock() *Clock {
	return &Clock{}
}

// Subscribe registers fn and returns its cancel function. Cancelling during
// a tick takes effect on the next tick.
func (c *Clock) Subscribe(fn TickFunc) func() {
	id := c.nextID
	c.nextID++
	c.subs = append(c.subs, clockSub{id: id, fn: fn})
	return func() {
		// Copy instead of splicing in place so a tick iterating the old
		// slice is unaffected.
		out := make([]clockSub, 0, len(c.subs))
		for _, s := range c.subs {
			if s.id != id {
				out = append(out, s)
			}
		}
		c.subs = out
	}
}

// Tick delivers dtSec to every subscriber in subscription order.
func (c *Clock) Tick(dtSec float32) {
	// Snapshot so a callback unsubscribing mid-tick cannot skip a peer.
	subs := c.subs
	for _, s := range subs {
		s.fn(dtSec)
	}
}
