package buffer

import (
	"bytes"
	"testing"
)

func TestNewAndLen(t *testing.T) {
	b := New(16)
	if b.Cap() != 16 {
		t.Errorf("Cap() = %d", b.Cap())
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d", b.Len())
	}
}

func TestWriteGrows(t *testing.T) {
	b := New(2)
	n, err := b.Write([]byte("hello world"))
	if err != nil || n != 11 {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if !bytes.Equal(b.Bytes(), []byte("hello world")) {
		t.Errorf("Bytes() = %q", b.Bytes())
	}
	if b.Cap() < 11 {
		t.Errorf("Cap() = %d", b.Cap())
	}
}

func TestResizePreserve(t *testing.T) {
	b := NewFrom([]byte("abcdef"))
	b.Resize(3, true)
	if !bytes.Equal(b.Bytes(), []byte("abc")) {
		t.Errorf("preserved content = %q", b.Bytes())
	}
	b.Resize(10, true)
	if !bytes.Equal(b.Bytes(), []byte("abc")) {
		t.Errorf("content after grow = %q", b.Bytes())
	}
	if b.Cap() != 10 {
		t.Errorf("Cap() = %d", b.Cap())
	}
}

func TestResizeDiscard(t *testing.T) {
	b := NewFrom([]byte("abcdef"))
	b.Resize(6, false)
	if b.Len() != 0 {
		t.Errorf("Len() = %d after discard", b.Len())
	}
}

func TestReset(t *testing.T) {
	b := NewFrom([]byte("abc"))
	b.Reset()
	if b.Len() != 0 || b.Cap() != 3 {
		t.Errorf("Len=%d Cap=%d", b.Len(), b.Cap())
	}
	b.Write([]byte("xy"))
	if !bytes.Equal(b.Bytes(), []byte("xy")) {
		t.Errorf("Bytes() = %q", b.Bytes())
	}
}
