package extractor

import (
	"slices"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/emirpasic/gods/utils"
	"github.com/notargets/vortrack/meshgraph"
	"github.com/notargets/vortrack/vortex"
	"github.com/plan-systems/klog"
)

// TraceOverSpace groups the punctured cells of a slot into connected
// components and walks every ordinary component into a vortex object.
// Components with a special cell are reported and skipped. Ties are broken
// towards the lowest cell id and the lowest local face index.
func (x *Extractor) TraceOverSpace(slot int) ([]vortex.Object, error) {
	if err := checkSlot("trace over space", slot); err != nil {
		return nil, err
	}
	if !x.facesDone[slot] {
		return nil, stageError("trace over space", "faces of slot %d not extracted", slot)
	}
	cells := x.cells[slot]
	timeStep := x.ds.TimeStep(slot)

	remaining := treeset.NewWith(utils.UInt32Comparator)
	cells.each(func(id uint32, pc *PuncturedCell) {
		if pc.Punctured() {
			remaining.Add(id)
		}
	})

	var objects []vortex.Object
	var special []meshgraph.CellID
	for !remaining.Empty() {
		it := remaining.Iterator()
		it.First()
		component := x.component(cells, remaining, meshgraph.CellID(it.Value().(uint32)))

		var bad []meshgraph.CellID
		for _, c := range component {
			remaining.Remove(uint32(c))
			if pc, _ := cells.get(uint32(c)); pc.Special() {
				bad = append(bad, c)
			}
		}
		if len(bad) > 0 {
			klog.Warningf("step %d: component of %d cells has %d special cells (first %d), not traced",
				timeStep, len(component), len(bad), bad[0])
			special = append(special, bad...)
			continue
		}

		obj := vortex.NewObject(len(objects), timeStep)
		x.traceComponent(cells, component, &obj)
		if len(obj.Traces) == 0 {
			klog.Warningf("step %d: component at cell %d produced no trace", timeStep, component[0])
			continue
		}
		objects = append(objects, obj)
	}

	slices.Sort(special)
	x.objects[slot] = objects
	x.special[slot] = special
	x.traced[slot] = true
	x.stage = SpaceTraced
	klog.V(1).Infof("%s %d: %d vortex objects, %d special cells", x.ds.Name(),
		timeStep, len(objects), len(special))
	return objects, nil
}

// component collects the cells reachable from seed through punctured faces,
// depth first. The result is sorted.
func (x *Extractor) component(cells *cellMap, remaining *treeset.Set, seed meshgraph.CellID) []meshgraph.CellID {
	visited := make(map[meshgraph.CellID]bool)
	var out []meshgraph.CellID

	stack := arraystack.New()
	stack.Push(seed)
	for !stack.Empty() {
		v, _ := stack.Pop()
		c := v.(meshgraph.CellID)
		if visited[c] {
			continue
		}
		visited[c] = true
		out = append(out, c)

		pc, _ := cells.get(uint32(c))
		cell := x.g.Cell(c)
		// Push in reverse so the lowest face index is explored first
		for i := len(cell.Faces) - 1; i >= 0; i-- {
			n := cell.Neighbors[i]
			if pc.Slots[i] == 0 || n == meshgraph.None || visited[n] {
				continue
			}
			if _, ok := cells.get(uint32(n)); !ok || !remaining.Contains(uint32(n)) {
				continue
			}
			stack.Push(n)
		}
	}
	slices.Sort(out)
	return out
}

// traceComponent covers an ordinary component with traces. Each trace starts
// at the lowest unvisited cell, walks along +1 faces and then prepends the
// walk along -1 faces unless the forward walk closed a loop.
func (x *Extractor) traceComponent(cells *cellMap, component []meshgraph.CellID, obj *vortex.Object) {
	inComponent := make(map[meshgraph.CellID]bool, len(component))
	for _, c := range component {
		inComponent[c] = true
	}
	visited := make(map[meshgraph.CellID]bool, len(component))

	for _, seed := range component {
		if visited[seed] {
			continue
		}
		visited[seed] = true

		forward, closed := x.walk(cells, seed, 1, inComponent, visited)
		trace := forward
		if !closed {
			backward, _ := x.walk(cells, seed, -1, inComponent, visited)
			slices.Reverse(backward)
			trace = append(backward, forward...)
		}
		if len(trace) > 0 {
			obj.AddTrace(trace)
		}
	}
}

// walk follows the faces whose slot equals dir from cell to cell and returns
// the crossed faces. It stops at the boundary, at a special or unpunctured
// neighbor, or after stepping into a visited cell. closed is set when the
// walk returns to seed.
func (x *Extractor) walk(cells *cellMap, seed meshgraph.CellID, dir int8,
	inComponent, visited map[meshgraph.CellID]bool) (faces []meshgraph.FaceID, closed bool) {

	c := seed
	for {
		pc, _ := cells.get(uint32(c))
		cell := x.g.Cell(c)

		next, via := meshgraph.CellID(meshgraph.None), meshgraph.FaceID(meshgraph.None)
		for i := range cell.Faces {
			n := cell.Neighbors[i]
			if pc.Slots[i] != dir || n == meshgraph.None {
				continue
			}
			if npc, ok := cells.get(uint32(n)); !ok || npc.Special() {
				continue
			}
			next, via = n, cell.Faces[i]
			break
		}
		if next == meshgraph.None {
			return faces, false
		}

		faces = append(faces, via)
		if next == seed {
			return faces, true
		}
		if visited[next] || !inComponent[next] {
			return faces, false
		}
		visited[next] = true
		c = next
	}
}
