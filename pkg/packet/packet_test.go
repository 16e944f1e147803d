package packet

import "testing"

func TestNewCopiesPayload(t *testing.T) {
	data := []byte("hello")
	p := New(data)
	if p.Length() != len(data) {
		t.Fatalf("Length() = %d, want %d", p.Length(), len(data))
	}
	if string(p.Bytes()) != "hello" {
		t.Fatalf("Bytes() = %q, want %q", p.Bytes(), "hello")
	}

	// Mutating the source slice must not affect the packet's copy.
	data[0] = 'X'
	if p.Bytes()[0] != 'h' {
		t.Fatal("Packet shares backing storage with its constructor input")
	}
}

func TestNewEmptyPayload(t *testing.T) {
	p := New(nil)
	if p.Length() != 0 {
		t.Fatalf("Length() = %d, want 0", p.Length())
	}
	if len(p.Bytes()) != 0 {
		t.Fatalf("Bytes() = %v, want empty", p.Bytes())
	}
}

func TestNewPanicsOnOversizedPayload(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("New() did not panic on oversized payload")
		}
	}()
	New(make([]byte, MaxSize+1))
}

func TestNewAtMaxSizeDoesNotPanic(t *testing.T) {
	p := New(make([]byte, MaxSize))
	if p.Length() != MaxSize {
		t.Fatalf("Length() = %d, want %d", p.Length(), MaxSize)
	}
}
