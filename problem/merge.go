package problem

import "github.com/pkg/errors"

import "sort"
import "sync"

var ErrDuplicateLayer = errors.New("merge map already stored for layer")

// MergeTable holds the merge maps of all layers being solved concurrently.
// Each layer is written once, by the worker that encoded it.
type MergeTable struct {
	mu     sync.Mutex
	merges map[int]MergeMap
}

func NewMergeTable() *MergeTable {
	return &MergeTable{merges: make(map[int]MergeMap)}
}

func (t *MergeTable) Store(layer int, m MergeMap) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.merges[layer]; ok {
		return errors.Wrapf(ErrDuplicateLayer, "layer %d", layer)
	}
	t.merges[layer] = m
	return nil
}

func (t *MergeTable) Load(layer int) (MergeMap, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.merges[layer]
	return m, ok
}

func (t *MergeTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.merges)
}

// Stored layer indices in ascending order.
func (t *MergeTable) Layers() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	layers := make([]int, 0, len(t.merges))
	for l := range t.merges {
		layers = append(layers, l)
	}
	sort.Ints(layers)
	return layers
}
