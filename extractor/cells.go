package extractor

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/notargets/vortrack/meshgraph"
)

// MaxSlots covers the faces of a hexahedron and the sides of a quad prism
const MaxSlots = 8

// PuncturedCell holds the signed punctures on the boundary of a cell. For a
// mesh cell the slots are its local faces; for a virtual cell slots 0 and 1
// are the face at t0 and t1 and slot 2+i is the side swept by face edge i.
type PuncturedCell struct {
	Slots [MaxSlots]int8
}

// Set stores the chirality seen through one slot
func (pc *PuncturedCell) Set(slot int, chi int8) {
	pc.Slots[slot] = chi
}

// Chirality returns the value of one slot
func (pc *PuncturedCell) Chirality(slot int) int8 {
	return pc.Slots[slot]
}

// Punctured reports whether any slot is set
func (pc *PuncturedCell) Punctured() bool {
	for _, c := range pc.Slots {
		if c != 0 {
			return true
		}
	}
	return false
}

// Sum is zero when every singularity entering the cell also leaves it
func (pc *PuncturedCell) Sum() int {
	s := 0
	for _, c := range pc.Slots {
		s += int(c)
	}
	return s
}

// Ordinary reports a single pass-through: one slot +1, one slot -1
func (pc *PuncturedCell) Ordinary() bool {
	in, out := 0, 0
	for _, c := range pc.Slots {
		switch {
		case c > 0:
			out++
		case c < 0:
			in++
		}
	}
	return in == 1 && out == 1
}

// Special reports a punctured cell that is not a single pass-through
func (pc *PuncturedCell) Special() bool {
	return pc.Punctured() && !pc.Ordinary()
}

// cellMap keys punctured cells by cell or face id in ascending order
type cellMap struct {
	m *treemap.Map
}

func newCellMap() *cellMap {
	return &cellMap{m: treemap.NewWith(utils.UInt32Comparator)}
}

// at returns the cell for id, creating it when absent
func (cm *cellMap) at(id uint32) *PuncturedCell {
	if v, ok := cm.m.Get(id); ok {
		return v.(*PuncturedCell)
	}
	pc := new(PuncturedCell)
	cm.m.Put(id, pc)
	return pc
}

func (cm *cellMap) get(id uint32) (*PuncturedCell, bool) {
	v, ok := cm.m.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*PuncturedCell), true
}

func (cm *cellMap) len() int { return cm.m.Size() }

func (cm *cellMap) each(fn func(id uint32, pc *PuncturedCell)) {
	it := cm.m.Iterator()
	for it.Next() {
		fn(it.Key().(uint32), it.Value().(*PuncturedCell))
	}
}

// VirtualCellReport counts the space-time face prisms by puncture pattern
type VirtualCellReport struct {
	Self    int // Punctured at t0 and t1, no side: the singularity stays in the face
	Pure    int // Sides only: the singularity passes between t0 and t1
	Cross   int // A cap and at least one side
	Invalid int // Nonzero sum

	InvalidFaces []meshgraph.FaceID
}
