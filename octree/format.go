package octree

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// recordSize is the on-disk size of one node record: a little-endian
// uint32 address, a mask byte, and three color bytes. No header, no
// trailer — the root is always record 0 (§6).
const recordSize = 8

// Load reads an octree file from path. The store it returns is
// Sparse-layout, matching the on-disk child addressing rule (§3):
// children of node i occupy indices i.Address..i.Address+8.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("octree: couldn't open %q: %w", path, err)
	}
	defer f.Close()

	st, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("octree: couldn't decode %q: %w", path, err)
	}
	return st, nil
}

// Decode reads node records from r until EOF. A file whose size isn't
// a multiple of recordSize yields an error on the final short read.
func Decode(r io.Reader) (*Store, error) {
	var nodes []Node
	buf := make([]byte, recordSize)
	for {
		n, err := io.ReadFull(r, buf)
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("truncated record: read %d of %d bytes", n, recordSize)
		}
		if err != nil {
			return nil, fmt.Errorf("reading record %d: %w", len(nodes), err)
		}
		nodes = append(nodes, Node{
			Address: binary.LittleEndian.Uint32(buf[0:4]),
			Mask:    buf[4],
			Data:    Color24{R: buf[5], G: buf[6], B: buf[7]},
		})
	}
	return &Store{nodes: nodes, layout: Sparse}, nil
}

// Save writes s to path in the §6 binary format. s must be Sparse
// layout; callers holding a Packed store should keep the original
// Sparse array around if round-tripping to disk matters, since
// packing is lossy with respect to the fixed 8-wide child stride.
func Save(path string, s *Store) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("octree: couldn't create %q: %w", path, err)
	}
	defer f.Close()

	if err := Encode(f, s); err != nil {
		return fmt.Errorf("octree: couldn't encode %q: %w", path, err)
	}
	return nil
}

// Encode writes s's node records to w in the §6 binary format.
func Encode(w io.Writer, s *Store) error {
	buf := make([]byte, recordSize)
	for _, n := range s.nodes {
		binary.LittleEndian.PutUint32(buf[0:4], n.Address)
		buf[4] = n.Mask
		buf[5], buf[6], buf[7] = n.Data.R, n.Data.G, n.Data.B
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
