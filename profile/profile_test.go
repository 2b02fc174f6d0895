package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JLSteenwyk/ecomp/frame"
)

func mustFrame(t *testing.T, ids, rows []string) frame.AlignmentFrame {
	t.Helper()
	f, err := frame.New(ids, rows, nil)
	require.NoError(t, err)

	return f
}

func TestProfile_ScenarioOneDeviation(t *testing.T) {
	f := mustFrame(t, []string{"s1", "s2"}, []string{"ACGTACGT", "ACGTTCGT"})
	profiles := Profile(f)

	require.Len(t, profiles, 8)
	for i, p := range profiles {
		if i == 4 {
			assert.Equal(t, byte('A'), p.Consensus)
			require.Len(t, p.Deviations, 1)
			assert.Equal(t, Deviation{Row: 1, Residue: 'T'}, p.Deviations[0])

			continue
		}
		assert.Empty(t, p.Deviations, "column %d should have no deviation", i)
	}
}

func TestProfile_AllEqualRows(t *testing.T) {
	f := mustFrame(t, []string{"a", "b", "c"}, []string{"AAAA", "AAAA", "AAAA"})
	profiles := Profile(f)

	require.Len(t, profiles, 4)
	for _, p := range profiles {
		assert.Equal(t, byte('A'), p.Consensus)
		assert.Empty(t, p.Deviations)
	}
}

func TestProfile_TieBreakAscendingAlphabet(t *testing.T) {
	// Two rows 'A', two rows 'C': tied at count 2, 'A' must win (ascending order).
	f := mustFrame(t, []string{"a", "b", "c", "d"}, []string{"A", "C", "A", "C"})
	profiles := Profile(f)

	require.Len(t, profiles, 1)
	assert.Equal(t, byte('A'), profiles[0].Consensus)
	require.Len(t, profiles[0].Deviations, 2)
	assert.Equal(t, Deviation{Row: 1, Residue: 'C'}, profiles[0].Deviations[0])
	assert.Equal(t, Deviation{Row: 3, Residue: 'C'}, profiles[0].Deviations[1])
}

func TestColumnProfile_Equal(t *testing.T) {
	a := ColumnProfile{Consensus: 'A', Deviations: []Deviation{{Row: 1, Residue: 'C'}}}
	b := ColumnProfile{Consensus: 'A', Deviations: []Deviation{{Row: 1, Residue: 'C'}}}
	c := ColumnProfile{Consensus: 'A', Deviations: []Deviation{{Row: 2, Residue: 'C'}}}
	d := ColumnProfile{Consensus: 'G', Deviations: []Deviation{{Row: 1, Residue: 'C'}}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}
