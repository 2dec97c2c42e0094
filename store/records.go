package store

import (
	"math"

	"github.com/gogo/protobuf/proto"
	"github.com/notargets/vortrack/meshgraph"
	"github.com/notargets/vortrack/puncture"
	"github.com/notargets/vortrack/vortex"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

// Record headers, bumped whenever a layout changes
const (
	edgesMagic  = "vortrack.pe.v1"
	facesMagic  = "vortrack.pf.v1"
	matrixMagic = "vortrack.tm.v1"
	linesMagic  = "vortrack.vlines.v1"
)

type encoder struct {
	b *proto.Buffer
}

func newEncoder(magic string) *encoder {
	e := &encoder{b: proto.NewBuffer(nil)}
	_ = e.b.EncodeStringBytes(magic)
	return e
}

func (e *encoder) varint(v uint64) { _ = e.b.EncodeVarint(v) }

func (e *encoder) zigzag(v int) { _ = e.b.EncodeZigzag64(uint64(int64(v))) }

func (e *encoder) float(v float64) { _ = e.b.EncodeFixed64(math.Float64bits(v)) }

func (e *encoder) vec(v r3.Vec) {
	e.float(v.X)
	e.float(v.Y)
	e.float(v.Z)
}

func (e *encoder) flag(v bool) {
	if v {
		e.varint(1)
	} else {
		e.varint(0)
	}
}

// decoder keeps the first error so record reads stay flat
type decoder struct {
	b   *proto.Buffer
	err error
}

func newDecoder(data []byte, magic string) *decoder {
	d := &decoder{b: proto.NewBuffer(data)}
	got, err := d.b.DecodeStringBytes()
	if err != nil {
		d.err = err
	} else if got != magic {
		d.err = errors.Errorf("header %q, want %q", got, magic)
	}
	return d
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

func (d *decoder) float() float64 {
	if d.err != nil {
		return 0
	}
	v, err := d.b.DecodeFixed64()
	d.err = err
	return math.Float64frombits(v)
}

func (d *decoder) vec() r3.Vec {
	return r3.Vec{X: d.float(), Y: d.float(), Z: d.float()}
}

func (d *decoder) flag() bool {
	return d.varint() != 0
}

// count reads a length and rejects values larger than the whole input
func (d *decoder) count() int {
	n := d.varint()
	if d.err == nil && n > uint64(len(d.b.Bytes())) {
		d.err = errors.Errorf("count %d exceeds input", n)
	}
	return int(n)
}

func (d *decoder) chirality() int8 {
	c := d.zigzag()
	if d.err == nil && c != 1 && c != -1 {
		d.err = errors.Errorf("chirality %d", c)
	}
	return int8(c)
}

func (d *decoder) fail(what string) error {
	return errors.Wrapf(ErrCorrupt, "%s: %v", what, d.err)
}

// EncodeEdges writes the punctured edges in id order
func EncodeEdges(em *puncture.EdgeMap) []byte {
	e := newEncoder(edgesMagic)
	e.varint(uint64(em.Len()))
	em.Each(func(id meshgraph.EdgeID, pe puncture.PuncturedEdge) {
		e.varint(uint64(id))
		e.zigzag(int(pe.Chirality))
		e.float(pe.T)
	})
	return e.b.Bytes()
}

func DecodeEdges(data []byte) (*puncture.EdgeMap, error) {
	d := newDecoder(data, edgesMagic)
	em := puncture.NewEdgeMap()
	n := d.count()
	for i := 0; i < n && d.err == nil; i++ {
		id := meshgraph.EdgeID(d.varint())
		pe := puncture.PuncturedEdge{Chirality: d.chirality(), T: d.float()}
		em.Put(id, pe)
	}
	if d.err != nil {
		return nil, d.fail("punctured edges")
	}
	return em, nil
}

// EncodeFaces writes the punctured faces of one slot in id order
func EncodeFaces(fm *puncture.FaceMap) []byte {
	e := newEncoder(facesMagic)
	e.varint(uint64(fm.Len()))
	fm.Each(func(id meshgraph.FaceID, pf puncture.PuncturedFace) {
		e.varint(uint64(id))
		e.zigzag(int(pf.Chirality))
		e.vec(pf.Pos)
	})
	return e.b.Bytes()
}

func DecodeFaces(data []byte) (*puncture.FaceMap, error) {
	d := newDecoder(data, facesMagic)
	fm := puncture.NewFaceMap()
	n := d.count()
	for i := 0; i < n && d.err == nil; i++ {
		id := meshgraph.FaceID(d.varint())
		pf := puncture.PuncturedFace{Chirality: d.chirality(), Pos: d.vec()}
		fm.Put(id, pf)
	}
	if d.err != nil {
		return nil, d.fail("punctured faces")
	}
	return fm, nil
}

// EncodeMatrix writes a transition matrix row by row
func EncodeMatrix(tm *vortex.TransitionMatrix) []byte {
	e := newEncoder(matrixMagic)
	n0, n1 := tm.Dims()
	e.zigzag(tm.T0)
	e.zigzag(tm.T1)
	e.varint(uint64(n0))
	e.varint(uint64(n1))
	for i := 0; i < n0; i++ {
		for j := 0; j < n1; j++ {
			e.varint(uint64(tm.At(i, j)))
		}
	}
	return e.b.Bytes()
}

func DecodeMatrix(data []byte) (*vortex.TransitionMatrix, error) {
	d := newDecoder(data, matrixMagic)
	t0, t1 := d.zigzag(), d.zigzag()
	n0, n1 := d.count(), d.count()
	if d.err == nil && n0*n1 > len(d.b.Bytes()) {
		d.err = errors.Errorf("%dx%d entries exceed input", n0, n1)
	}
	if d.err != nil {
		return nil, d.fail("transition matrix")
	}
	tm := vortex.NewTransitionMatrix(t0, t1, n0, n1)
	for i := 0; i < n0; i++ {
		for j := 0; j < n1; j++ {
			tm.Set(i, j, int(d.varint()))
		}
	}
	if d.err != nil {
		return nil, d.fail("transition matrix")
	}
	return tm, nil
}

// EncodeLines writes the line header followed by every line
func EncodeLines(info vortex.DataInfo, lines []vortex.Line) []byte {
	e := newEncoder(linesMagic)
	e.vec(info.Origin)
	e.vec(info.Lengths)
	for k := 0; k < 3; k++ {
		e.flag(info.Periodic[k])
	}
	e.varint(uint64(len(lines)))
	for _, l := range lines {
		e.zigzag(l.ID)
		e.zigzag(l.GID)
		e.zigzag(l.TimeStep)
		e.varint(uint64(l.R))
		e.varint(uint64(l.G))
		e.varint(uint64(l.B))
		e.flag(l.IsBezier)
		e.varint(uint64(len(l.Points)))
		for _, p := range l.Points {
			e.vec(p)
		}
	}
	return e.b.Bytes()
}

func DecodeLines(data []byte) (vortex.DataInfo, []vortex.Line, error) {
	var info vortex.DataInfo
	d := newDecoder(data, linesMagic)
	info.Origin = d.vec()
	info.Lengths = d.vec()
	for k := 0; k < 3; k++ {
		info.Periodic[k] = d.flag()
	}
	n := d.count()
	var lines []vortex.Line
	for i := 0; i < n && d.err == nil; i++ {
		l := vortex.Line{
			ID:       d.zigzag(),
			GID:      d.zigzag(),
			TimeStep: d.zigzag(),
			R:        uint8(d.varint()),
			G:        uint8(d.varint()),
			B:        uint8(d.varint()),
			IsBezier: d.flag(),
		}
		np := d.count()
		for j := 0; j < np && d.err == nil; j++ {
			l.Points = append(l.Points, d.vec())
		}
		lines = append(lines, l)
	}
	if d.err != nil {
		return info, nil, d.fail("vortex lines")
	}
	return info, lines, nil
}

// PutMesh stores the incidence graph of a data set
func PutMesh(s Store, name string, g *meshgraph.MeshGraph) error {
	data, err := g.MarshalBinary()
	if err != nil {
		return errors.Wrap(err, "encode mesh graph")
	}
	return s.Put(MeshKey(name), data)
}

// GetMesh loads and verifies the incidence graph of a data set
func GetMesh(s Store, name string) (*meshgraph.MeshGraph, error) {
	data, err := s.Get(MeshKey(name))
	if err != nil {
		return nil, err
	}
	g := new(meshgraph.MeshGraph)
	if err := g.UnmarshalBinary(data); err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "mesh graph: %v", err)
	}
	return g, nil
}
