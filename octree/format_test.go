package octree

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	nodes := []Node{
		{Address: 1, Mask: 0x03, Data: Color24{}},
		{Address: 0, Mask: 0, Data: Color24{R: 255, G: 0, B: 0}},
		{Address: 0, Mask: 0, Data: Color24{R: 0, G: 255, B: 0}},
	}
	s := New(nodes, Sparse)

	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := buf.Len(); got != len(nodes)*recordSize {
		t.Fatalf("encoded length = %d, want %d", got, len(nodes)*recordSize)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Len() != len(nodes) {
		t.Fatalf("decoded Len() = %d, want %d", got.Len(), len(nodes))
	}
	for i, n := range nodes {
		if got.Mask(uint32(i)) != n.Mask || got.Addr(uint32(i)) != n.Address || got.Data(uint32(i)) != n.Data {
			t.Errorf("record %d round-tripped as %+v, want %+v", i, got.Node(uint32(i)), n)
		}
	}
}

func TestDecodeTruncatedRecord(t *testing.T) {
	buf := bytes.NewReader([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00}) // 6 of 8 bytes
	if _, err := Decode(buf); err == nil {
		t.Error("Decode on a truncated record should return an error")
	}
}

func TestDecodeEmpty(t *testing.T) {
	s, err := Decode(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("Decode(empty): %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}
