// Package packet provides the opaque packet buffer apps pass through links.
//
// The engine never inspects packet payloads — it only records size when a
// packet is freed, for the load report's bytes/packet and bits/sec figures.
package packet

// MaxSize is the largest payload a Packet can carry.
const MaxSize = 16384

// Packet is an opaque, fixed-capacity byte buffer.
type Packet struct {
	data   [MaxSize]byte
	length int
}

// New returns a Packet holding a copy of data.
// Panics if data exceeds MaxSize, matching the collaborator's promise that
// oversized payloads are a caller bug, not a runtime condition to recover from.
func New(data []byte) *Packet {
	if len(data) > MaxSize {
		panic("packet: payload exceeds MaxSize")
	}
	p := &Packet{length: len(data)}
	copy(p.data[:], data)
	return p
}

// Length returns the packet's payload length in bytes.
func (p *Packet) Length() int {
	return p.length
}

// Bytes returns the packet's payload.
func (p *Packet) Bytes() []byte {
	return p.data[:p.length]
}
