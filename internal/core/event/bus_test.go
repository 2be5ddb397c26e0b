package event

import "testing"

type ping struct {
	N int
}

type pong struct {
	Msg string
}

func TestEmitDeliveredAfterSwap(t *testing.T) {
	b := NewBus()

	var got []int
	Subscribe(b, func(ev ping) { got = append(got, ev.N) })

	Emit(b, ping{N: 1})
	Emit(b, ping{N: 2})

	// Nothing delivered until the buffers rotate.
	b.Dispatch()
	if len(got) != 0 {
		t.Fatalf("delivered %v before SwapBuffers", got)
	}

	b.SwapBuffers()
	b.Dispatch()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("got %v, want [1 2] in emit order", got)
	}
}

func TestEmitDuringDispatchLandsNextFrame(t *testing.T) {
	b := NewBus()

	delivered := 0
	Subscribe(b, func(ev ping) {
		delivered++
		if ev.N < 3 {
			Emit(b, ping{N: ev.N + 1})
		}
	})

	Emit(b, ping{N: 1})

	// Each frame delivers exactly one event; the re-emit waits for the next.
	for frame := 0; frame < 3; frame++ {
		b.SwapBuffers()
		b.Dispatch()
		if delivered != frame+1 {
			t.Fatalf("frame %d: delivered = %d, want %d", frame, delivered, frame+1)
		}
	}

	// Chain ends at N=3; a further frame delivers nothing.
	b.SwapBuffers()
	b.Dispatch()
	if delivered != 3 {
		t.Errorf("delivered = %d after chain end, want 3", delivered)
	}
}

func TestTypesAreIndependent(t *testing.T) {
	b := NewBus()

	var pings, pongs int
	Subscribe(b, func(ping) { pings++ })
	Subscribe(b, func(pong) { pongs++ })

	Emit(b, ping{})
	Emit(b, pong{})
	Emit(b, pong{})

	b.SwapBuffers()
	b.Dispatch()

	if pings != 1 || pongs != 2 {
		t.Errorf("pings=%d pongs=%d, want 1 and 2", pings, pongs)
	}
}

func TestMultipleSubscribers(t *testing.T) {
	b := NewBus()

	var a, c int
	Subscribe(b, func(ping) { a++ })
	Subscribe(b, func(ping) { c++ })

	Emit(b, ping{})
	b.SwapBuffers()
	b.Dispatch()

	if a != 1 || c != 1 {
		t.Errorf("a=%d c=%d, want both 1", a, c)
	}
}

func TestUnsubscribedEventDropped(t *testing.T) {
	b := NewBus()

	Emit(b, pong{Msg: "nobody listens"})
	b.SwapBuffers()
	b.Dispatch() // must not panic

	// The slot is reused on the following frame without redelivery.
	var got int
	Subscribe(b, func(pong) { got++ })
	b.SwapBuffers()
	b.Dispatch()
	if got != 0 {
		t.Errorf("stale event redelivered %d times", got)
	}
}
