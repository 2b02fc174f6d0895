package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_Deterministic(t *testing.T) {
	tests := []struct {
		name      string
		consensus byte
		bitmask   []byte
		residues  []byte
	}{
		{"empty everything", 'A', nil, nil},
		{"typical block", 'A', []byte{0x02}, []byte{'T'}},
		{"longer bitmask", 'G', []byte{0xff, 0x00, 0x3c}, []byte{'A', 'C', 'G', 'T'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k1 := Key(tt.consensus, tt.bitmask, tt.residues)
			k2 := Key(tt.consensus, tt.bitmask, tt.residues)
			assert.Equal(t, k1, k2, "Key must be deterministic")
		})
	}
}

func TestKey_DistinguishesInputs(t *testing.T) {
	base := Key('A', []byte{0x02}, []byte{'T'})

	assert.NotEqual(t, base, Key('C', []byte{0x02}, []byte{'T'}), "consensus change should change key")
	assert.NotEqual(t, base, Key('A', []byte{0x03}, []byte{'T'}), "bitmask change should change key")
	assert.NotEqual(t, base, Key('A', []byte{0x02}, []byte{'G'}), "residues change should change key")
}

func BenchmarkKey(b *testing.B) {
	bitmask := []byte{0xff, 0x00, 0x3c, 0x01}
	residues := []byte{'A', 'C', 'G', 'T', 'A', 'C'}
	b.ResetTimer()
	for b.Loop() {
		Key('G', bitmask, residues)
	}
}
