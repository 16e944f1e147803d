// Package linkbuf implements the bounded packet FIFO the engine hands out as
// a shared Link between a producing and a consuming app.
//
// It is a collaborator package, not part of the engine core: spec.md names
// "link buffer implementation" explicitly as something the core only
// consumes through an interface. It lives here so the engine has a concrete,
// testable Link to reconcile and so the demo apps in pkg/basicapps have
// something to push packets onto.
package linkbuf

import "github.com/airlock-systems/breathe/pkg/packet"

// MaxPackets is the fixed capacity of every Link, mirroring the reference
// engine's LINK_MAX_PACKETS.
const MaxPackets = 1024

// Link is a bounded FIFO of packets with the counters spec.md's Link type
// requires: txpackets, txdrop, rxpackets.
type Link struct {
	ring      [MaxPackets]*packet.Packet
	read      int
	write     int
	n         int
	Txpackets uint64
	Txdrop    uint64
	Rxpackets uint64
}

// New returns a fresh, empty Link.
func New() *Link {
	return &Link{}
}

// Full reports whether the link is at capacity.
func (l *Link) Full() bool {
	return l.n == MaxPackets
}

// Empty reports whether the link has no packets queued.
func (l *Link) Empty() bool {
	return l.n == 0
}

// Nreadable returns the number of packets currently queued.
func (l *Link) Nreadable() int {
	return l.n
}

// Nwritable returns the remaining free capacity.
func (l *Link) Nwritable() int {
	return MaxPackets - l.n
}

// Transmit enqueues p. If the link is full the packet is dropped and
// Txdrop is incremented instead; this is the engine's documented
// lossy-under-pressure behavior, not an error.
func (l *Link) Transmit(p *packet.Packet) {
	if l.Full() {
		l.Txdrop++
		return
	}
	l.ring[l.write] = p
	l.write = (l.write + 1) % MaxPackets
	l.n++
	l.Txpackets++
}

// Receive dequeues and returns the oldest packet. ok is false if the link
// is empty.
func (l *Link) Receive() (p *packet.Packet, ok bool) {
	if l.Empty() {
		return nil, false
	}
	p = l.ring[l.read]
	l.ring[l.read] = nil
	l.read = (l.read + 1) % MaxPackets
	l.n--
	l.Rxpackets++
	return p, true
}
