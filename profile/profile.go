// Package profile implements the Column Profiler: for every column of
// an AlignmentFrame, it tallies residue frequency, picks a consensus character, and
// records which rows deviate from it. The step is deterministic and purely functional.
package profile

import "github.com/JLSteenwyk/ecomp/frame"

// Deviation is one (row, residue) pair in a column whose residue differs from the
// column's consensus.
type Deviation struct {
	Row     int
	Residue byte
}

// ColumnProfile is one column's consensus character plus its ordered deviation list
// (ascending row index).
type ColumnProfile struct {
	Consensus  byte
	Deviations []Deviation
}

// Equal reports whether p and o are equivalent profiles: equal consensus and equal
// deviation lists, compared as ordered tuples.
func (p ColumnProfile) Equal(o ColumnProfile) bool {
	if p.Consensus != o.Consensus {
		return false
	}
	if len(p.Deviations) != len(o.Deviations) {
		return false
	}
	for i, d := range p.Deviations {
		if d != o.Deviations[i] {
			return false
		}
	}

	return true
}

// Profile scans f column by column and returns one ColumnProfile per column,
// left-to-right. A frame with zero rows yields an empty profile list.
func Profile(f frame.AlignmentFrame) []ColumnProfile {
	rows := f.RowCount()
	cols := f.ColumnCount()
	if rows == 0 {
		return nil
	}

	profiles := make([]ColumnProfile, cols)
	counts := make(map[byte]int, 8)
	keys := make([]byte, 0, 8)

	for c := 0; c < cols; c++ {
		for k := range counts {
			delete(counts, k)
		}
		keys = keys[:0]
		for r := 0; r < rows; r++ {
			ch := f.Rows[r][c]
			if _, seen := counts[ch]; !seen {
				keys = append(keys, ch)
			}
			counts[ch]++
		}

		consensus := consensusOf(counts, keys)

		var deviations []Deviation
		for r := 0; r < rows; r++ {
			ch := f.Rows[r][c]
			if ch != consensus {
				deviations = append(deviations, Deviation{Row: r, Residue: ch})
			}
		}

		profiles[c] = ColumnProfile{Consensus: consensus, Deviations: deviations}
	}

	return profiles
}

// consensusOf picks the most frequent character in counts, ties broken by ascending
// byte value. keys need not be sorted; consensusOf sorts its own copy.
func consensusOf(counts map[byte]int, keys []byte) byte {
	sorted := append([]byte(nil), keys...)
	insertionSortBytes(sorted)

	var best byte
	bestCount := -1
	for _, k := range sorted {
		if counts[k] > bestCount {
			bestCount = counts[k]
			best = k
		}
	}

	return best
}

// insertionSortBytes sorts small byte slices ascending. Alignment alphabets are tiny
// (a handful of residue characters), so insertion sort avoids sort.Slice's interface
// overhead on the hottest loop in the codec (once per column).
func insertionSortBytes(b []byte) {
	for i := 1; i < len(b); i++ {
		v := b[i]
		j := i - 1
		for j >= 0 && b[j] > v {
			b[j+1] = b[j]
			j--
		}
		b[j+1] = v
	}
}
