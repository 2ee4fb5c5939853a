package vbyte

import (
	"math"
	"math/rand"
	"testing"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	cases := []uint64{
		0, 1, 127, 128, 129, 255, 256, 16383, 16384,
		math.MaxUint32, math.MaxUint64,
	}
	for _, v := range cases {
		enc := Encode(v)
		got, n := Decode(enc)
		if n != len(enc) {
			t.Errorf("Decode(%d): consumed %d bytes, want %d", v, n, len(enc))
		}
		if got != v {
			t.Errorf("Decode(Encode(%d)) = %d, want %d", v, got, v)
		}
	}
}

func TestEncodeDecode_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10000; i++ {
		v := rng.Uint64()
		got, n := Decode(Encode(v))
		if n == 0 {
			t.Fatalf("Decode(Encode(%d)) reported incomplete encoding", v)
		}
		if got != v {
			t.Fatalf("round trip mismatch for %d: got %d", v, got)
		}
	}
}

func TestDecode_Truncated(t *testing.T) {
	// A continuation byte with nothing after it never terminates.
	buf := []byte{0x80, 0x80}
	_, n := Decode(buf)
	if n != 0 {
		t.Errorf("expected n=0 for truncated buffer, got %d", n)
	}
}

func TestConcatenation_SelfDelimiting(t *testing.T) {
	values := []uint64{0, 300, 70000, 1, 2, 3}
	var buf []byte
	for _, v := range values {
		buf = vAppend(buf, v)
	}
	r := NewReader(buf)
	for _, want := range values {
		got, ok := r.Next()
		if !ok {
			t.Fatalf("reader ran out early, want %d", want)
		}
		if got != want {
			t.Errorf("got %d, want %d", got, want)
		}
	}
	if !r.Done() {
		t.Error("expected reader to be exhausted")
	}
}

func vAppend(buf []byte, v uint64) []byte {
	return AppendEncode(buf, v)
}

func TestEncodeSliceDecodeSlice(t *testing.T) {
	vs := []uint64{0, 1, 2, 1000, 999999, 0, 5}
	buf := EncodeSlice(vs)
	got, err := DecodeSlice(buf, len(vs))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(vs) {
		t.Fatalf("got %d values, want %d", len(got), len(vs))
	}
	for i := range vs {
		if got[i] != vs[i] {
			t.Errorf("index %d: got %d, want %d", i, got[i], vs[i])
		}
	}
}

func TestDecodeSlice_Truncated(t *testing.T) {
	buf := EncodeSlice([]uint64{1, 2})
	if _, err := DecodeSlice(buf, 3); err != ErrTruncated {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}
