package linkbuf

import (
	"testing"

	"github.com/airlock-systems/breathe/pkg/packet"
)

func TestEmptyLinkStartsEmpty(t *testing.T) {
	l := New()
	if !l.Empty() {
		t.Fatal("new link should be empty")
	}
	if l.Full() {
		t.Fatal("new link should not be full")
	}
	if l.Nreadable() != 0 {
		t.Fatalf("Nreadable = %d, want 0", l.Nreadable())
	}
	if l.Nwritable() != MaxPackets {
		t.Fatalf("Nwritable = %d, want %d", l.Nwritable(), MaxPackets)
	}
}

func TestTransmitReceiveFIFOOrder(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		l.Transmit(packet.New([]byte{byte(i)}))
	}
	if l.Nreadable() != 3 {
		t.Fatalf("Nreadable = %d, want 3", l.Nreadable())
	}
	for i := 0; i < 3; i++ {
		p, ok := l.Receive()
		if !ok {
			t.Fatalf("Receive() ok=false at i=%d", i)
		}
		if got := p.Bytes()[0]; got != byte(i) {
			t.Fatalf("packet %d = %d, want %d", i, got, i)
		}
	}
	if !l.Empty() {
		t.Fatal("link should be empty after draining")
	}
}

func TestReceiveFromEmptyLink(t *testing.T) {
	l := New()
	if _, ok := l.Receive(); ok {
		t.Fatal("Receive() on empty link should report ok=false")
	}
}

func TestTransmitDropsWhenFull(t *testing.T) {
	l := New()
	data := []byte("x")
	for i := 0; i < MaxPackets; i++ {
		l.Transmit(packet.New(data))
	}
	if !l.Full() {
		t.Fatal("link should be full after MaxPackets transmits")
	}
	if l.Txdrop != 0 {
		t.Fatalf("Txdrop = %d, want 0 before overflow", l.Txdrop)
	}

	l.Transmit(packet.New(data))
	if l.Txdrop != 1 {
		t.Fatalf("Txdrop = %d, want 1 after overflow transmit", l.Txdrop)
	}
	if l.Txpackets != MaxPackets {
		t.Fatalf("Txpackets = %d, want %d (dropped packet must not count)", l.Txpackets, MaxPackets)
	}
}

func TestRingWrapsAroundAfterDrain(t *testing.T) {
	l := New()
	// Fill and drain repeatedly to push read/write past the ring boundary.
	for round := 0; round < 3; round++ {
		for i := 0; i < MaxPackets; i++ {
			l.Transmit(packet.New([]byte{byte(i)}))
		}
		for i := 0; i < MaxPackets; i++ {
			p, ok := l.Receive()
			if !ok || p.Bytes()[0] != byte(i) {
				t.Fatalf("round %d: packet %d out of order or missing", round, i)
			}
		}
	}
	if !l.Empty() {
		t.Fatal("link should be empty after equal transmits and receives")
	}
}

func TestCountersTrackRxAndTx(t *testing.T) {
	l := New()
	l.Transmit(packet.New([]byte("a")))
	l.Transmit(packet.New([]byte("b")))
	l.Receive()
	if l.Txpackets != 2 {
		t.Fatalf("Txpackets = %d, want 2", l.Txpackets)
	}
	if l.Rxpackets != 1 {
		t.Fatalf("Rxpackets = %d, want 1", l.Rxpackets)
	}
}
