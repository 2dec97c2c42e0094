package meshgraph

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
)

const graphMagic = "vortrack.meshgraph.v1"

// MarshalBinary encodes the graph as a flat varint stream
func (g *MeshGraph) MarshalBinary() ([]byte, error) {
	b := proto.NewBuffer(nil)
	put := func(v uint64) {
		_ = b.EncodeVarint(v)
	}
	putInt := func(v int) {
		_ = b.EncodeZigzag64(uint64(int64(v)))
	}

	_ = b.EncodeStringBytes(graphMagic)
	put(uint64(g.Shape))
	put(uint64(g.NumNodes))
	put(uint64(len(g.Edges)))
	put(uint64(len(g.Faces)))
	put(uint64(len(g.Cells)))

	for i := range g.Edges {
		e := &g.Edges[i]
		put(uint64(e.Nodes[0]))
		put(uint64(e.Nodes[1]))
		put(uint64(len(e.Faces)))
		for j, fid := range e.Faces {
			put(uint64(fid))
			putInt(int(e.FaceChirality[j]))
			putInt(e.FaceEdgeIndex[j])
		}
	}
	for i := range g.Faces {
		f := &g.Faces[i]
		put(uint64(len(f.Nodes)))
		for j, n := range f.Nodes {
			put(uint64(n))
			put(uint64(f.Edges[j]))
			putInt(int(f.EdgeChirality[j]))
		}
		for side := 0; side < 2; side++ {
			put(uint64(f.Cells[side]))
			putInt(f.CellFaceIndex[side])
		}
	}
	for i := range g.Cells {
		c := &g.Cells[i]
		put(uint64(len(c.Nodes)))
		for _, n := range c.Nodes {
			put(uint64(n))
		}
		put(uint64(len(c.Faces)))
		for j, fid := range c.Faces {
			put(uint64(fid))
			putInt(int(c.FaceChirality[j]))
			put(uint64(c.Neighbors[j]))
		}
	}
	return b.Bytes(), nil
}

// UnmarshalBinary decodes a graph written by MarshalBinary and verifies it
func (g *MeshGraph) UnmarshalBinary(data []byte) error {
	d := &decoder{b: proto.NewBuffer(data)}

	if magic, err := d.b.DecodeStringBytes(); err != nil || magic != graphMagic {
		return fmt.Errorf("mesh graph header: %w", ErrInvalidMesh)
	}
	shape := Shape(d.varint())
	numNodes := int(d.varint())
	ne, nf, nc := d.count(), d.count(), d.count()
	if d.err != nil {
		return fmt.Errorf("mesh graph header: %v: %w", d.err, ErrInvalidMesh)
	}

	out := MeshGraph{
		Shape:    shape,
		NumNodes: numNodes,
		Edges:    make([]Edge, ne),
		Faces:    make([]Face, nf),
		Cells:    make([]Cell, nc),
	}
	for i := range out.Edges {
		e := &out.Edges[i]
		e.Nodes = [2]NodeID{NodeID(d.varint()), NodeID(d.varint())}
		n := d.count()
		for j := 0; j < n && d.err == nil; j++ {
			e.Faces = append(e.Faces, FaceID(d.varint()))
			e.FaceChirality = append(e.FaceChirality, int8(d.zigzag()))
			e.FaceEdgeIndex = append(e.FaceEdgeIndex, d.zigzag())
		}
	}
	for i := range out.Faces {
		f := &out.Faces[i]
		n := d.count()
		for j := 0; j < n && d.err == nil; j++ {
			f.Nodes = append(f.Nodes, NodeID(d.varint()))
			f.Edges = append(f.Edges, EdgeID(d.varint()))
			f.EdgeChirality = append(f.EdgeChirality, int8(d.zigzag()))
		}
		for side := 0; side < 2; side++ {
			f.Cells[side] = CellID(d.varint())
			f.CellFaceIndex[side] = d.zigzag()
		}
	}
	for i := range out.Cells {
		c := &out.Cells[i]
		n := d.count()
		for j := 0; j < n && d.err == nil; j++ {
			c.Nodes = append(c.Nodes, NodeID(d.varint()))
		}
		n = d.count()
		for j := 0; j < n && d.err == nil; j++ {
			c.Faces = append(c.Faces, FaceID(d.varint()))
			c.FaceChirality = append(c.FaceChirality, int8(d.zigzag()))
			c.Neighbors = append(c.Neighbors, CellID(d.varint()))
		}
	}
	if d.err != nil {
		return fmt.Errorf("mesh graph body: %v: %w", d.err, ErrInvalidMesh)
	}
	if err := out.Verify(); err != nil {
		return err
	}
	*g = out
	return nil
}

// decoder keeps the first error so the field reads above stay flat
type decoder struct {
	b   *proto.Buffer
	err error
}

func (d *decoder) varint() uint64 {
	if d.err != nil {
		return 0
	}
	v, err := d.b.DecodeVarint()
	d.err = err
	return v
}

func (d *decoder) zigzag() int {
	if d.err != nil {
		return 0
	}
	v, err := d.b.DecodeZigzag64()
	d.err = err
	return int(int64(v))
}

// count reads a length and rejects values larger than the whole input
func (d *decoder) count() int {
	n := d.varint()
	if d.err == nil && n > uint64(len(d.b.Bytes())) {
		d.err = fmt.Errorf("count %d exceeds input", n)
	}
	return int(n)
}
