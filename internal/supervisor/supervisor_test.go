package supervisor

import "testing"

func TestBindPort_FallsBackOnCollision(t *testing.T) {
	first, port1, err := bindPort("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("bindPort: %v", err)
	}
	defer first.Close()

	second, port2, err := bindPort("127.0.0.1", port1)
	if err != nil {
		t.Fatalf("bindPort fallback: %v", err)
	}
	defer second.Close()

	if port2 == port1 {
		t.Fatalf("expected a different port on collision, got %d twice", port1)
	}
}

func TestBindPort_ExhaustsFallback(t *testing.T) {
	held := make([]*heldListener, 0, maxPortFallback+2)
	defer func() {
		for _, h := range held {
			h.ln.Close()
		}
	}()

	// Bind the base port first to discover a free one, then occupy it
	// and every fallback successor so bindPort has nowhere left to go.
	base, port, err := bindPort("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("bindPort: %v", err)
	}
	held = append(held, &heldListener{ln: base})

	for offset := 1; offset <= maxPortFallback; offset++ {
		ln, _, err := bindPort("127.0.0.1", port+uint16(offset))
		if err != nil {
			// Some offset in this range was already unavailable on the
			// test host; that's fine, it still narrows the free range.
			continue
		}
		held = append(held, &heldListener{ln: ln})
	}

	if _, _, err := bindPort("127.0.0.1", port); err == nil {
		t.Fatalf("expected bindPort to exhaust fallback budget, it succeeded")
	}
}

type heldListener struct {
	ln interface{ Close() error }
}
