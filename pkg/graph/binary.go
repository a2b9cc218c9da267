package graph

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"unsafe"

	"github.com/DataDog/zstd"
)

const (
	magicBytes = "PFGRAPH\x00"
	version    = uint32(1)
	maxNodes   = 50_000_000
	maxEdges   = 200_000_000
)

// Compression selects how the snapshot payload is stored.
type Compression uint32

const (
	CompressionNone Compression = 0
	CompressionZstd Compression = 1
)

// fileHeader is the binary header. It is always stored uncompressed.
type fileHeader struct {
	Magic       [8]byte
	Version     uint32
	Compression uint32
	NumNodes    uint32
	NumEdges    uint32
}

// WriteBinary serializes the node and edge tables of g to path.
// The payload is followed by a CRC32 of the uncompressed payload; both sit
// inside the compressed stream when compression is enabled. The file is
// written to a temp path and renamed into place.
func WriteBinary(path string, g *Graph, comp Compression) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // no-op after a successful rename
	}()

	hdr := fileHeader{
		Version:     version,
		Compression: uint32(comp),
		NumNodes:    g.NumNodes,
		NumEdges:    g.NumEdges,
	}
	copy(hdr.Magic[:], magicBytes)
	if err := binary.Write(f, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bw := bufio.NewWriter(f)
	var body io.Writer = bw
	var zw *zstd.Writer
	switch comp {
	case CompressionNone:
	case CompressionZstd:
		zw = zstd.NewWriter(bw)
		body = zw
	default:
		return fmt.Errorf("unknown compression %d", comp)
	}

	crcWriter := crc32Writer{w: body, hash: crc32.NewIEEE()}
	w := &crcWriter

	if err := writeInt64Slice(w, nodeIDsAsInt64(g.NodeID)); err != nil {
		return fmt.Errorf("write NodeID: %w", err)
	}
	if err := writeFloat64Slice(w, g.NodeLat); err != nil {
		return fmt.Errorf("write NodeLat: %w", err)
	}
	if err := writeFloat64Slice(w, g.NodeLon); err != nil {
		return fmt.Errorf("write NodeLon: %w", err)
	}
	if err := writeUint32Slice(w, g.FirstOut); err != nil {
		return fmt.Errorf("write FirstOut: %w", err)
	}
	if err := writeUint32Slice(w, g.Head); err != nil {
		return fmt.Errorf("write Head: %w", err)
	}
	if err := writeFloat64Slice(w, g.Weight); err != nil {
		return fmt.Errorf("write Weight: %w", err)
	}

	// CRC32 trailer, not itself covered by the checksum.
	if err := binary.Write(body, binary.LittleEndian, crcWriter.hash.Sum32()); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}

	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("close zstd stream: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Atomic rename.
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}

// ReadBinary deserializes a snapshot written by WriteBinary and rebuilds the
// graph through Build, so a loaded graph satisfies the same invariants as a
// freshly built one.
func ReadBinary(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var hdr fileHeader
	if err := binary.Read(f, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}
	if hdr.NumNodes > maxNodes {
		return nil, fmt.Errorf("NumNodes %d exceeds limit %d", hdr.NumNodes, maxNodes)
	}
	if hdr.NumEdges > maxEdges {
		return nil, fmt.Errorf("NumEdges %d exceeds limit %d", hdr.NumEdges, maxEdges)
	}

	var body io.Reader = bufio.NewReader(f)
	switch Compression(hdr.Compression) {
	case CompressionNone:
	case CompressionZstd:
		zr := zstd.NewReader(body)
		defer zr.Close()
		body = zr
	default:
		return nil, fmt.Errorf("unknown compression %d", hdr.Compression)
	}

	crcReader := crc32Reader{r: body, hash: crc32.NewIEEE()}
	r := &crcReader

	n := int(hdr.NumNodes)
	m := int(hdr.NumEdges)

	ids, err := readInt64Slice(r, n)
	if err != nil {
		return nil, fmt.Errorf("read NodeID: %w", err)
	}
	lat, err := readFloat64Slice(r, n)
	if err != nil {
		return nil, fmt.Errorf("read NodeLat: %w", err)
	}
	lon, err := readFloat64Slice(r, n)
	if err != nil {
		return nil, fmt.Errorf("read NodeLon: %w", err)
	}
	firstOut, err := readUint32Slice(r, n+1)
	if err != nil {
		return nil, fmt.Errorf("read FirstOut: %w", err)
	}
	head, err := readUint32Slice(r, m)
	if err != nil {
		return nil, fmt.Errorf("read Head: %w", err)
	}
	weight, err := readFloat64Slice(r, m)
	if err != nil {
		return nil, fmt.Errorf("read Weight: %w", err)
	}

	expectedCRC := crcReader.hash.Sum32()
	var storedCRC uint32
	if err := binary.Read(body, binary.LittleEndian, &storedCRC); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if storedCRC != expectedCRC {
		return nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", storedCRC, expectedCRC)
	}

	if err := validateCSR(firstOut, head, hdr.NumNodes); err != nil {
		return nil, fmt.Errorf("CSR invalid: %w", err)
	}

	nodes := make([]Node, n)
	for i := range nodes {
		nodes[i] = Node{ID: NodeID(ids[i]), Lat: lat[i], Lon: lon[i]}
	}
	edges := make([]Edge, 0, m)
	for u := 0; u < n; u++ {
		for e := firstOut[u]; e < firstOut[u+1]; e++ {
			edges = append(edges, Edge{Source: nodes[u].ID, Target: nodes[head[e]].ID, Weight: weight[e]})
		}
	}

	return Build(nodes, edges)
}

// validateCSR checks CSR invariants.
func validateCSR(firstOut, head []uint32, numNodes uint32) error {
	if uint32(len(firstOut)) != numNodes+1 {
		return fmt.Errorf("FirstOut length %d != NumNodes+1 %d", len(firstOut), numNodes+1)
	}
	if firstOut[0] != 0 {
		return fmt.Errorf("FirstOut[0] = %d, want 0", firstOut[0])
	}
	numEdges := firstOut[numNodes]
	if uint32(len(head)) != numEdges {
		return fmt.Errorf("Head length %d != FirstOut[NumNodes] %d", len(head), numEdges)
	}
	for i := uint32(1); i <= numNodes; i++ {
		if firstOut[i] < firstOut[i-1] {
			return fmt.Errorf("FirstOut not monotonic at %d: %d < %d", i, firstOut[i], firstOut[i-1])
		}
	}
	for i, h := range head {
		if h >= numNodes {
			return fmt.Errorf("Head[%d]=%d >= NumNodes=%d", i, h, numNodes)
		}
	}
	return nil
}

func nodeIDsAsInt64(ids []NodeID) []int64 {
	if len(ids) == 0 {
		return nil
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(&ids[0])), len(ids))
}

// Zero-copy I/O helpers using unsafe.Slice.

func writeUint32Slice(w io.Writer, s []uint32) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(b)
	return err
}

func writeInt64Slice(w io.Writer, s []int64) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := w.Write(b)
	return err
}

func writeFloat64Slice(w io.Writer, s []float64) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := w.Write(b)
	return err
}

func readUint32Slice(r io.Reader, n int) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]uint32, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*4)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func readInt64Slice(r io.Reader, n int) ([]int64, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]int64, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*8)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func readFloat64Slice(r io.Reader, n int) ([]float64, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]float64, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*8)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

// CRC32 wrapping writers/readers.

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
