// Package runlength implements the Run-Length Grouper: it walks the Column Profiler's
// output left to right, coalescing adjacent columns that share an equivalent profile
// into a single Block carrying a run length, splitting a run once it would exceed 255
// columns. The per-unique-profile bitmask/residue materialization is computed exactly
// once per block, not once per column.
package runlength

import "github.com/JLSteenwyk/ecomp/profile"

// MaxRunLength is the largest run a single block may carry (run_length ∈ [1, 255]).
const MaxRunLength = 255

// Block groups one or more adjacent columns sharing an equivalent profile.
// DeviationBitmask has one entry per row (true if that row deviates from Consensus);
// Residues holds the deviation characters for the set bits, in ascending row order.
// Neither field is bit-packed yet — that happens downstream in the bitmask and residue
// codecs, which each need the raw membership/character data to run their own mode
// contests.
type Block struct {
	Consensus        byte
	DeviationBitmask []bool
	Residues         []byte
	RunLength        int
}

// DeviationCount returns the number of rows marked as deviating in this block.
func (b Block) DeviationCount() int {
	return len(b.Residues)
}

// Column reconstructs one occurrence of this block's column: rowCount bytes, all equal
// to Consensus except at the marked deviation rows, which take the corresponding
// Residues entry in ascending row order.
func (b Block) Column(rowCount int) []byte {
	col := make([]byte, rowCount)
	for i := range col {
		col[i] = b.Consensus
	}

	ri := 0
	for row, dev := range b.DeviationBitmask {
		if dev {
			col[row] = b.Residues[ri]
			ri++
		}
	}

	return col
}

// Group coalesces profiles into run-length blocks.
func Group(profiles []profile.ColumnProfile, rowCount int) []Block {
	if len(profiles) == 0 {
		return nil
	}

	var blocks []Block
	var cur Block
	var curProfile profile.ColumnProfile
	haveCur := false

	for _, p := range profiles {
		if haveCur && curProfile.Equal(p) && cur.RunLength < MaxRunLength {
			cur.RunLength++

			continue
		}
		if haveCur {
			blocks = append(blocks, cur)
		}
		cur = materialize(p, rowCount)
		curProfile = p
		haveCur = true
	}
	if haveCur {
		blocks = append(blocks, cur)
	}

	return blocks
}

func materialize(p profile.ColumnProfile, rowCount int) Block {
	bm := make([]bool, rowCount)
	residues := make([]byte, len(p.Deviations))
	for i, d := range p.Deviations {
		bm[d.Row] = true
		residues[i] = d.Residue
	}

	return Block{Consensus: p.Consensus, DeviationBitmask: bm, Residues: residues, RunLength: 1}
}
