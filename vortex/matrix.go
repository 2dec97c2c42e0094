package vortex

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// TransitionMatrix links the objects of time step T0 (rows) to those of T1
// (columns). Entry (i,j) counts the face correspondences found between them.
type TransitionMatrix struct {
	T0, T1 int
	n0, n1 int
	data   []int
}

// NewTransitionMatrix returns a zero n0 x n1 matrix
func NewTransitionMatrix(t0, t1, n0, n1 int) *TransitionMatrix {
	return &TransitionMatrix{T0: t0, T1: t1, n0: n0, n1: n1, data: make([]int, n0*n1)}
}

// Dims returns the row and column counts
func (m *TransitionMatrix) Dims() (n0, n1 int) { return m.n0, m.n1 }

// At returns entry (i,j)
func (m *TransitionMatrix) At(i, j int) int { return m.data[i*m.n1+j] }

// Set stores entry (i,j)
func (m *TransitionMatrix) Set(i, j, v int) { m.data[i*m.n1+j] = v }

// Inc adds one to entry (i,j)
func (m *TransitionMatrix) Inc(i, j int) { m.data[i*m.n1+j]++ }

// RowSum is the number of links leaving object i of T0
func (m *TransitionMatrix) RowSum(i int) int {
	s := 0
	for j := 0; j < m.n1; j++ {
		s += m.At(i, j)
	}
	return s
}

// ColSum is the number of links reaching object j of T1
func (m *TransitionMatrix) ColSum(j int) int {
	s := 0
	for i := 0; i < m.n0; i++ {
		s += m.At(i, j)
	}
	return s
}

// Equal reports whether both matrices have the same steps, shape and entries
func (m *TransitionMatrix) Equal(o *TransitionMatrix) bool {
	if m.T0 != o.T0 || m.T1 != o.T1 || m.n0 != o.n0 || m.n1 != o.n1 {
		return false
	}
	for k := range m.data {
		if m.data[k] != o.data[k] {
			return false
		}
	}
	return true
}

// Dense returns a float copy for linear algebra, nil when either dimension is zero
func (m *TransitionMatrix) Dense() *mat.Dense {
	if m.n0 == 0 || m.n1 == 0 {
		return nil
	}
	d := mat.NewDense(m.n0, m.n1, nil)
	for i := 0; i < m.n0; i++ {
		for j := 0; j < m.n1; j++ {
			d.Set(i, j, float64(m.At(i, j)))
		}
	}
	return d
}

func (m *TransitionMatrix) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "transition %d->%d (%dx%d)", m.T0, m.T1, m.n0, m.n1)
	if d := m.Dense(); d != nil {
		fmt.Fprintf(&sb, "\n%v", mat.Formatted(d, mat.Squeeze()))
	}
	return sb.String()
}

// EventKind classifies how objects change between two time steps
type EventKind uint8

const (
	Continued EventKind = iota
	Split
	Merged
	Born
	Died
)

func (k EventKind) String() string {
	return [...]string{"continued", "split", "merged", "born", "died"}[k]
}

// Event groups the objects involved in one change
type Event struct {
	Kind EventKind
	From []int // Local ids at T0
	To   []int // Local ids at T1
}

// Events derives the topological events from the row and column sums.
// Rows are scanned first, then columns, so the order is deterministic.
func (m *TransitionMatrix) Events() []Event {
	var events []Event
	for i := 0; i < m.n0; i++ {
		var to []int
		for j := 0; j < m.n1; j++ {
			if m.At(i, j) > 0 {
				to = append(to, j)
			}
		}
		switch {
		case len(to) == 0:
			events = append(events, Event{Kind: Died, From: []int{i}})
		case len(to) > 1:
			events = append(events, Event{Kind: Split, From: []int{i}, To: to})
		case m.colLinks(to[0]) == 1:
			events = append(events, Event{Kind: Continued, From: []int{i}, To: to})
		}
	}
	for j := 0; j < m.n1; j++ {
		var from []int
		for i := 0; i < m.n0; i++ {
			if m.At(i, j) > 0 {
				from = append(from, i)
			}
		}
		switch {
		case len(from) == 0:
			events = append(events, Event{Kind: Born, To: []int{j}})
		case len(from) > 1:
			events = append(events, Event{Kind: Merged, From: from, To: []int{j}})
		}
	}
	return events
}

// colLinks counts the rows linked to column j
func (m *TransitionMatrix) colLinks(j int) int {
	n := 0
	for i := 0; i < m.n0; i++ {
		if m.At(i, j) > 0 {
			n++
		}
	}
	return n
}

// rowLinks counts the columns linked to row i
func (m *TransitionMatrix) rowLinks(i int) int {
	n := 0
	for j := 0; j < m.n1; j++ {
		if m.At(i, j) > 0 {
			n++
		}
	}
	return n
}
