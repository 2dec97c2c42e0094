package extractor

import (
	"fmt"
	"sync"

	"github.com/notargets/vortrack/meshgraph"
	"github.com/notargets/vortrack/partitions"
	"github.com/notargets/vortrack/puncture"
	"github.com/plan-systems/klog"
)

// runPartitions splits [0,n) across the configured workers and calls visit
// once per partition on its own goroutine
func (x *Extractor) runPartitions(n int, visit func(p *partitions.Partition)) error {
	layout, err := partitions.NewWorkerBuilder(n, x.cfg.Workers, x.cfg.Strategy).BuildPartitions()
	if err != nil {
		return fmt.Errorf("partitioning %d entities: %w", n, err)
	}
	klog.V(2).Infof("%d entities over %d partitions (%s, max %d)",
		n, layout.NumPartitions, x.cfg.Strategy, layout.KpartMax)

	var wg sync.WaitGroup
	for i := range layout.Partitions {
		wg.Add(1)
		go func(p *partitions.Partition) {
			defer wg.Done()
			visit(p)
		}(&layout.Partitions[i])
	}
	wg.Wait()
	return nil
}

// detectEdges evaluates every edge. Workers fill private maps that are merged
// in partition order.
func (x *Extractor) detectEdges() (*puncture.EdgeMap, error) {
	var mu sync.Mutex
	parts := make(map[int]*puncture.EdgeMap)
	err := x.runPartitions(x.g.NumEdges(), func(p *partitions.Partition) {
		local := puncture.NewEdgeMap()
		for _, k := range p.Elements {
			id := meshgraph.EdgeID(k)
			if pe, ok := x.det.DetectEdge(x.g, id, x.ds); ok {
				local.Put(id, pe)
			}
		}
		mu.Lock()
		parts[p.ID] = local
		mu.Unlock()
	})
	if err != nil {
		return nil, err
	}
	out := puncture.NewEdgeMap()
	for i := 0; i < len(parts); i++ {
		out.Merge(parts[i])
	}
	return out, nil
}

// detectFaces evaluates every face at one slot
func (x *Extractor) detectFaces(slot int) (*puncture.FaceMap, error) {
	var mu sync.Mutex
	parts := make(map[int]*puncture.FaceMap)
	err := x.runPartitions(x.g.NumFaces(), func(p *partitions.Partition) {
		local := puncture.NewFaceMap()
		for _, k := range p.Elements {
			id := meshgraph.FaceID(k)
			if pf, ok := x.det.DetectFace(x.g, id, slot, x.ds); ok {
				local.Put(id, pf)
			}
		}
		mu.Lock()
		parts[p.ID] = local
		mu.Unlock()
	})
	if err != nil {
		return nil, err
	}
	out := puncture.NewFaceMap()
	for i := 0; i < len(parts); i++ {
		out.Merge(parts[i])
	}
	return out, nil
}
