package ml

import (
	"math"
	"math/rand"
	"sort"
)

// Node is one CART node stored in a flat slice. Leaves carry the fraction of delayed
// training rows that reached them; split nodes send x[Feature] <= Threshold left.
type Node struct {
	Leaf      bool    `json:"leaf,omitempty"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
	Value     float64 `json:"value"`
}

type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Predict walks the tree for x. Callers validate len(x).
func (t *Tree) Predict(x []float64) float64 {
	i := 0
	for steps := 0; steps <= len(t.Nodes); steps++ {
		n := t.Nodes[i]
		if n.Leaf {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return math.NaN()
}

// valid reports whether every child index points inside the tree and forward of its parent.
func (t *Tree) valid(numFeatures int) bool {
	if len(t.Nodes) == 0 {
		return false
	}
	for i, n := range t.Nodes {
		if n.Leaf {
			continue
		}
		if n.Feature < 0 || n.Feature >= numFeatures {
			return false
		}
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return false
		}
	}
	return true
}

type treeParams struct {
	maxDepth        int
	minSamplesSplit int
	maxFeatures     int
}

type treeBuilder struct {
	x      [][]float64
	y      []bool
	params treeParams
	rng    *rand.Rand
	nodes  []Node
}

// growTree fits a gini CART tree on the rows listed in idx (duplicates allowed).
func growTree(x [][]float64, y []bool, idx []int, params treeParams, rng *rand.Rand) Tree {
	b := &treeBuilder{x: x, y: y, params: params, rng: rng}
	b.build(idx, 0)
	return Tree{Nodes: b.nodes}
}

func (b *treeBuilder) build(idx []int, depth int) int {
	pos := 0
	for _, i := range idx {
		if b.y[i] {
			pos++
		}
	}
	self := len(b.nodes)
	b.nodes = append(b.nodes, Node{Leaf: true, Value: float64(pos) / float64(len(idx))})

	if pos == 0 || pos == len(idx) || len(idx) < b.params.minSamplesSplit {
		return self
	}
	if b.params.maxDepth > 0 && depth >= b.params.maxDepth {
		return self
	}

	feature, threshold, ok := b.bestSplit(idx, pos)
	if !ok {
		return self
	}
	var left, right []int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	b.nodes[self] = Node{Feature: feature, Threshold: threshold, Left: l, Right: r, Value: b.nodes[self].Value}
	return self
}

// bestSplit scans a random feature subset for the threshold with the lowest weighted gini.
func (b *treeBuilder) bestSplit(idx []int, pos int) (feature int, threshold float64, ok bool) {
	n := len(idx)
	best := gini(n, pos)
	numFeatures := len(b.x[idx[0]])
	sorted := make([]int, n)

	for _, f := range b.rng.Perm(numFeatures)[:b.params.maxFeatures] {
		copy(sorted, idx)
		sort.Slice(sorted, func(i, j int) bool { return b.x[sorted[i]][f] < b.x[sorted[j]][f] })

		leftPos := 0
		for k := 0; k < n-1; k++ {
			if b.y[sorted[k]] {
				leftPos++
			}
			cur, next := b.x[sorted[k]][f], b.x[sorted[k+1]][f]
			if cur == next {
				continue
			}
			nl, nr := k+1, n-k-1
			impurity := (float64(nl)*gini(nl, leftPos) + float64(nr)*gini(nr, pos-leftPos)) / float64(n)
			if impurity < best-1e-12 {
				best, feature, threshold, ok = impurity, f, (cur+next)/2, true
			}
		}
	}
	return feature, threshold, ok
}

func gini(n, pos int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(pos) / float64(n)
	return 1 - p*p - (1-p)*(1-p)
}
