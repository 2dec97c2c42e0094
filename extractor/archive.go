package extractor

import (
	"github.com/notargets/vortrack/puncture"
	"github.com/notargets/vortrack/store"
	"github.com/notargets/vortrack/vortex"
	"github.com/plan-systems/klog"
)

// load reads key from the archive. Misses are logged and reported as false
// so the caller recomputes.
func (x *Extractor) load(key string) ([]byte, bool) {
	if !x.cfg.Archive {
		return nil, false
	}
	data, err := x.cfg.Store.Get(key)
	if err != nil {
		if store.IsNotFound(err) {
			klog.V(1).Infof("cache miss %s", key)
		} else {
			klog.Warningf("cache read %s: %v", key, err)
		}
		return nil, false
	}
	return data, true
}

func (x *Extractor) save(key string, data []byte) bool {
	if !x.cfg.Archive {
		return false
	}
	if err := x.cfg.Store.Put(key, data); err != nil {
		klog.Warningf("cache write %s: %v", key, err)
		return false
	}
	return true
}

func (x *Extractor) edgesKey() string {
	return store.EdgesKey(x.ds.Name(), x.ds.TimeStep(0), x.ds.TimeStep(1))
}

func (x *Extractor) loadEdges() (*puncture.EdgeMap, bool) {
	data, ok := x.load(x.edgesKey())
	if !ok {
		return nil, false
	}
	em, err := store.DecodeEdges(data)
	if err != nil {
		klog.Warningf("cache %s: %v", x.edgesKey(), err)
		return nil, false
	}
	// Records of another mesh decode cleanly but index past this graph
	for _, id := range em.IDs() {
		if int(id) >= x.g.NumEdges() {
			klog.Warningf("cache %s: edge %d outside mesh of %d edges", x.edgesKey(), id, x.g.NumEdges())
			return nil, false
		}
	}
	return em, true
}

func (x *Extractor) saveEdges(em *puncture.EdgeMap) bool {
	return x.save(x.edgesKey(), store.EncodeEdges(em))
}

func (x *Extractor) facesKey(slot int) string {
	return store.FacesKey(x.ds.Name(), x.ds.TimeStep(slot))
}

func (x *Extractor) loadFaces(slot int) (*puncture.FaceMap, bool) {
	data, ok := x.load(x.facesKey(slot))
	if !ok {
		return nil, false
	}
	fm, err := store.DecodeFaces(data)
	if err != nil {
		klog.Warningf("cache %s: %v", x.facesKey(slot), err)
		return nil, false
	}
	for _, id := range fm.IDs() {
		if int(id) >= x.g.NumFaces() {
			klog.Warningf("cache %s: face %d outside mesh of %d faces", x.facesKey(slot), id, x.g.NumFaces())
			return nil, false
		}
	}
	return fm, true
}

func (x *Extractor) saveFaces(slot int, fm *puncture.FaceMap) bool {
	return x.save(x.facesKey(slot), store.EncodeFaces(fm))
}

func (x *Extractor) matrixKey() string {
	return store.MatrixKey(x.ds.Name(), x.ds.TimeStep(0), x.ds.TimeStep(1))
}

// loadMatrix accepts a stored matrix only when it matches the current objects
func (x *Extractor) loadMatrix() (*vortex.TransitionMatrix, bool) {
	data, ok := x.load(x.matrixKey())
	if !ok {
		return nil, false
	}
	tm, err := store.DecodeMatrix(data)
	if err != nil {
		klog.Warningf("cache %s: %v", x.matrixKey(), err)
		return nil, false
	}
	n0, n1 := tm.Dims()
	if n0 != len(x.objects[0]) || n1 != len(x.objects[1]) ||
		tm.T0 != x.ds.TimeStep(0) || tm.T1 != x.ds.TimeStep(1) {
		klog.Warningf("cache %s: %dx%d matrix does not match %d and %d objects",
			x.matrixKey(), n0, n1, len(x.objects[0]), len(x.objects[1]))
		return nil, false
	}
	return tm, true
}

func (x *Extractor) saveMatrix(tm *vortex.TransitionMatrix) bool {
	return x.save(x.matrixKey(), store.EncodeMatrix(tm))
}
