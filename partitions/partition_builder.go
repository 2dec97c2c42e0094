package partitions

import (
	"fmt"
	"math"

	"github.com/notargets/vortrack/meshgraph"
)

// PartitionBuilder splits an entity range into partitions
type PartitionBuilder struct {
	NumElements int // Size of the entity range [0, NumElements)

	// Partitioning parameters
	TargetPartitionSize int // Desired entities per partition
	Strategy            PartitionStrategy
}

// PartitionStrategy defines how entities are grouped
type PartitionStrategy int

const (
	BlockPartition PartitionStrategy = iota // Consecutive entities
	RoundRobin                              // Distribute cyclically
)

func (s PartitionStrategy) String() string {
	switch s {
	case BlockPartition:
		return "block"
	case RoundRobin:
		return "roundrobin"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy maps a strategy name to its value
func ParseStrategy(name string) (PartitionStrategy, error) {
	switch name {
	case "", "block":
		return BlockPartition, nil
	case "roundrobin":
		return RoundRobin, nil
	}
	return BlockPartition, fmt.Errorf("unknown partition strategy %q", name)
}

// NewWorkerBuilder sizes partitions so that numElements is spread over workers
func NewWorkerBuilder(numElements, workers int, strategy PartitionStrategy) *PartitionBuilder {
	if workers < 1 {
		workers = 1
	}
	size := int(math.Ceil(float64(numElements) / float64(workers)))
	if size < 1 {
		size = 1
	}
	return &PartitionBuilder{
		NumElements:         numElements,
		TargetPartitionSize: size,
		Strategy:            strategy,
	}
}

// BuildPartitions creates a partition layout
func (pb *PartitionBuilder) BuildPartitions() (*PartitionLayout, error) {
	if pb.NumElements < 0 || pb.TargetPartitionSize < 1 {
		return nil, fmt.Errorf("invalid partition request: %d elements, target size %d",
			pb.NumElements, pb.TargetPartitionSize)
	}

	// Determine number of partitions needed
	numPartitions := pb.calculateNumPartitions()

	// Partition the entities
	eToP := pb.partitionElements(numPartitions)

	// Create partition structures
	partitions := pb.createPartitions(eToP, numPartitions)

	kpartMax := pb.calculateKpartMax(partitions)
	for i := range partitions {
		partitions[i].MaxElements = kpartMax
	}

	layout := &PartitionLayout{
		Partitions:    partitions,
		KpartMax:      kpartMax,
		TotalElements: pb.NumElements,
		NumPartitions: numPartitions,
		EToP:          eToP,
	}

	if err := layout.ValidateLayout(); err != nil {
		return nil, fmt.Errorf("invalid partition layout: %w", err)
	}

	return layout, nil
}

// calculateNumPartitions determines the partition count
func (pb *PartitionBuilder) calculateNumPartitions() int {
	numPartitions := int(math.Ceil(float64(pb.NumElements) / float64(pb.TargetPartitionSize)))

	// Ensure at least one partition
	if numPartitions < 1 {
		numPartitions = 1
	}

	return numPartitions
}

// partitionElements assigns entities to partitions
func (pb *PartitionBuilder) partitionElements(numPartitions int) []int {
	eToP := make([]int, pb.NumElements)

	switch pb.Strategy {
	case RoundRobin:
		for i := 0; i < pb.NumElements; i++ {
			eToP[i] = i % numPartitions
		}

	default:
		elementsPerPartition := int(math.Ceil(float64(pb.NumElements) / float64(numPartitions)))
		for i := 0; i < pb.NumElements; i++ {
			eToP[i] = i / elementsPerPartition
			if eToP[i] >= numPartitions {
				eToP[i] = numPartitions - 1
			}
		}
	}

	return eToP
}

// createPartitions builds partition structures from entity assignments
func (pb *PartitionBuilder) createPartitions(eToP []int, numPartitions int) []Partition {
	partitions := make([]Partition, numPartitions)
	for i := range partitions {
		partitions[i] = Partition{
			ID:       i,
			Elements: make([]int, 0, pb.TargetPartitionSize),
		}
	}

	for elem, part := range eToP {
		partitions[part].Elements = append(partitions[part].Elements, elem)
		partitions[part].NumElements++
	}

	return partitions
}

// calculateKpartMax finds the largest partition
func (pb *PartitionBuilder) calculateKpartMax(partitions []Partition) int {
	kpartMax := 0
	for _, p := range partitions {
		if p.NumElements > kpartMax {
			kpartMax = p.NumElements
		}
	}
	return kpartMax
}

// CutFaces counts the interior faces whose two cells fall in different
// partitions of a cell layout
func CutFaces(layout *PartitionLayout, g *meshgraph.MeshGraph) (int, error) {
	if layout.TotalElements != g.NumCells() {
		return 0, fmt.Errorf("layout covers %d elements, mesh has %d cells",
			layout.TotalElements, g.NumCells())
	}
	cut := 0
	for fid := range g.Faces {
		f := g.Face(meshgraph.FaceID(fid))
		// Skip boundary faces
		if f.Boundary() {
			continue
		}
		if layout.GetPartition(int(f.Cells[0])) != layout.GetPartition(int(f.Cells[1])) {
			cut++
		}
	}
	return cut, nil
}
