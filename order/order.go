// Package order implements the Sequence-Order Optimizer: it reorders an
// AlignmentFrame's rows so that adjacent rows share more per-column values, increasing
// run-length block coalescence downstream. A Newick tree hint is tried first, then a
// distance-based contest between an MST traversal and a greedy nearest-neighbor walk,
// compared against doing nothing (baseline).
package order

import (
	"math"
	"sort"

	"github.com/JLSteenwyk/ecomp/frame"
	"github.com/JLSteenwyk/ecomp/internal/newick"
)

// DefaultGapThreshold is the fraction of gap characters above which a tree-guided
// ordering is rejected unless it beats baseline cost.
const DefaultGapThreshold = 0.5

// maxSampleColumns bounds the distance matrix's column sample to at most 256
// alignment columns.
const maxSampleColumns = 256

// Result is the chosen ordering: Permutation[i] is the original row index now at
// position i. A nil Permutation means identity (baseline order).
type Result struct {
	Permutation []int
	Label       string
}

// Optimize picks a row ordering for f. treeNewick is the optional Newick tree hint
// (empty string if none is available); override is the ordering_strategy configuration
// value ("" and "auto" both mean no override; unrecognized values fall back to "auto");
// gapThreshold controls tree-order gap-heavy rejection (use DefaultGapThreshold absent
// a caller-supplied value).
func Optimize(f frame.AlignmentFrame, treeNewick string, override string, gapThreshold float64) Result {
	n := f.RowCount()
	if n <= 1 {
		return Result{Label: "baseline"}
	}

	switch normalizeOverride(override) {
	case "baseline":
		return Result{Label: "baseline"}
	case "mst":
		dist := distanceMatrix(f)

		return Result{Permutation: nonIdentity(mstOrder(dist)), Label: "mst"}
	case "greedy":
		dist := distanceMatrix(f)

		return Result{Permutation: nonIdentity(greedyOrder(dist)), Label: "greedy"}
	}

	dist := distanceMatrix(f)
	baselineCost := pathCost(nil, dist)

	if treeNewick != "" {
		if perm, ok := treeOrder(treeNewick, f.IDs); ok {
			treeCost := pathCost(perm, dist)
			rejected := f.GapFraction() > gapThreshold && treeCost >= baselineCost
			if !rejected {
				return Result{Permutation: nonIdentity(perm), Label: "tree"}
			}
		}
	}

	mst := mstOrder(dist)
	greedy := greedyOrder(dist)
	mstCost := pathCost(mst, dist)
	greedyCost := pathCost(greedy, dist)

	best := "baseline"
	bestCost := baselineCost
	var bestPerm []int
	if greedyCost < bestCost {
		best, bestCost, bestPerm = "greedy", greedyCost, greedy
	}
	if mstCost < bestCost {
		best, bestPerm = "mst", mst
	}

	return Result{Permutation: nonIdentity(bestPerm), Label: "auto-" + best}
}

// nonIdentity returns perm unchanged unless it is the identity permutation, in which
// case it returns nil: only a permutation that actually differs from identity is worth
// carrying through to the payload/metadata.
func nonIdentity(perm []int) []int {
	for i, p := range perm {
		if p != i {
			return perm
		}
	}

	return nil
}

// Inverse returns the permutation that undoes perm: applying perm then Inverse(perm)
// restores original order.
func Inverse(perm []int) []int {
	inv := make([]int, len(perm))
	for i, p := range perm {
		inv[p] = i
	}

	return inv
}

func normalizeOverride(s string) string {
	switch s {
	case "baseline", "mst", "greedy", "auto":
		return s
	default:
		return "auto"
	}
}

// sampleColumns returns up to maxSampleColumns column indices, evenly spaced, always
// including the first and last column so the sample is reproducible.
func sampleColumns(cols int) []int {
	if cols <= maxSampleColumns {
		idx := make([]int, cols)
		for i := range idx {
			idx[i] = i
		}

		return idx
	}

	idx := make([]int, maxSampleColumns)
	step := float64(cols-1) / float64(maxSampleColumns-1)
	for i := range idx {
		idx[i] = int(float64(i)*step + 0.5)
	}
	idx[0] = 0
	idx[maxSampleColumns-1] = cols - 1

	return idx
}

func distanceMatrix(f frame.AlignmentFrame) [][]int {
	n := f.RowCount()
	cols := sampleColumns(f.ColumnCount())

	dist := make([][]int, n)
	for i := range dist {
		dist[i] = make([]int, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := 0
			for _, c := range cols {
				if f.Rows[i][c] != f.Rows[j][c] {
					d++
				}
			}
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	return dist
}

// pathCost sums consecutive-row distances for perm (nil perm means identity order).
func pathCost(perm []int, dist [][]int) int {
	n := len(dist)
	cost := 0
	prev := 0
	for i := 1; i < n; i++ {
		cur := i
		if perm != nil {
			prev = perm[i-1]
			cur = perm[i]
		} else {
			prev = i - 1
		}
		cost += dist[prev][cur]
	}

	return cost
}

// mstOrder builds a prim-like MST over dist rooted at row 0 and walks it depth-first,
// visiting lighter-weight children before heavier ones.
func mstOrder(dist [][]int) []int {
	n := len(dist)
	inMST := make([]bool, n)
	parent := make([]int, n)
	parentWeight := make([]int, n)
	key := make([]int, n)
	for i := range key {
		key[i] = math.MaxInt32
		parent[i] = -1
	}
	key[0] = 0

	for count := 0; count < n; count++ {
		u := -1
		best := math.MaxInt32
		for v := 0; v < n; v++ {
			if !inMST[v] && key[v] < best {
				best = key[v]
				u = v
			}
		}
		inMST[u] = true
		for v := 0; v < n; v++ {
			if !inMST[v] && dist[u][v] < key[v] {
				key[v] = dist[u][v]
				parent[v] = u
				parentWeight[v] = dist[u][v]
			}
		}
	}

	children := make([][]int, n)
	for v := 1; v < n; v++ {
		children[parent[v]] = append(children[parent[v]], v)
	}
	for u := range children {
		u := u
		sort.Slice(children[u], func(i, j int) bool {
			wi, wj := parentWeight[children[u][i]], parentWeight[children[u][j]]
			if wi != wj {
				return wi < wj
			}

			return children[u][i] < children[u][j]
		})
	}

	order := make([]int, 0, n)
	visited := make([]bool, n)
	stack := []int{0}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[u] {
			continue
		}
		visited[u] = true
		order = append(order, u)
		for i := len(children[u]) - 1; i >= 0; i-- {
			stack = append(stack, children[u][i])
		}
	}

	return order
}

// greedyOrder starts from the row with the lowest total distance to all others, then
// repeatedly appends the nearest unused row, ties broken by ascending row index.
func greedyOrder(dist [][]int) []int {
	n := len(dist)
	rowSum := make([]int, n)
	for i := 0; i < n; i++ {
		s := 0
		for j := 0; j < n; j++ {
			s += dist[i][j]
		}
		rowSum[i] = s
	}

	start := 0
	for i := 1; i < n; i++ {
		if rowSum[i] < rowSum[start] {
			start = i
		}
	}

	used := make([]bool, n)
	order := make([]int, 0, n)
	order = append(order, start)
	used[start] = true

	for len(order) < n {
		last := order[len(order)-1]
		next := -1
		bestD := math.MaxInt32
		for v := 0; v < n; v++ {
			if used[v] {
				continue
			}
			if next == -1 || dist[last][v] < bestD {
				bestD = dist[last][v]
				next = v
			}
		}
		order = append(order, next)
		used[next] = true
	}

	return order
}


// treeOrder parses treeNewick and maps its leaf labels to row indices in ids. It
// reports ok=false (rather than an error) whenever the hint cannot be used — malformed
// Newick, or a leaf label set that doesn't match ids exactly — since an unusable tree
// hint falls back to the distance-based contest rather than failing compression.
func treeOrder(treeNewick string, ids []string) ([]int, bool) {
	leaves, err := newick.LeafOrder(treeNewick)
	if err != nil || len(leaves) != len(ids) {
		return nil, false
	}

	idIndex := make(map[string]int, len(ids))
	for i, id := range ids {
		idIndex[id] = i
	}

	perm := make([]int, len(leaves))
	seen := make(map[string]bool, len(leaves))
	for i, leaf := range leaves {
		idx, ok := idIndex[leaf]
		if !ok || seen[leaf] {
			return nil, false
		}
		seen[leaf] = true
		perm[i] = idx
	}

	return perm, true
}
