package pipeline

import (
	"encoding/hex"
	"encoding/json"

	"github.com/JLSteenwyk/ecomp/format"
)

// Fallback describes the gzip-fallback path's provenance.
type Fallback struct {
	Type         string `json:"type"`
	SourceFormat string `json:"source_format,omitempty"`
}

// Metadata is the archive's Metadata Record: every field downstream decode needs,
// plus Extra, an open bag preserving any unrecognized key the archive layer must
// round-trip untouched.
type Metadata struct {
	FormatVersion        string
	Codec                format.ArchiveCodec
	RowCount             int
	ColumnCount          int
	Alphabet             []byte
	SourceFormat         string
	ChecksumSHA256       [32]byte
	BlockCount           int
	MaxRunLength         int
	DeviationColumnCount int
	BitmaskByteWidth     int
	BitsPerSymbol        int
	PayloadEncoding      format.PayloadEncoding
	RawSize              int
	EncodedSize          int
	OrderingStrategy     string
	Permutation          []int // legacy: a permutation recovered from metadata rather than the in-payload ECPE chunk
	Fallback             *Fallback

	Extra map[string]json.RawMessage
}

// MarshalJSON writes the canonical form: every key (known fields plus Extra) in one
// flat object, sorted ascending, compact separators. Go's encoding/json already sorts
// map[string]T keys and omits insignificant whitespace by default, so building one map
// and delegating to json.Marshal gives canonical JSON for free rather than hand-rolling
// a sorted writer.
func (m Metadata) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{}
	for k, v := range m.Extra {
		var decoded interface{}
		if err := json.Unmarshal(v, &decoded); err == nil {
			out[k] = decoded
		}
	}

	out["format_version"] = m.FormatVersion
	out["codec"] = m.Codec.String()
	out["row_count"] = m.RowCount
	out["column_count"] = m.ColumnCount
	out["alphabet"] = string(m.Alphabet)
	out["source_format"] = m.SourceFormat
	out["checksum_sha256"] = hex.EncodeToString(m.ChecksumSHA256[:])
	out["block_count"] = m.BlockCount
	out["max_run_length"] = m.MaxRunLength
	out["deviation_column_count"] = m.DeviationColumnCount
	out["bitmask_byte_width"] = m.BitmaskByteWidth
	out["bits_per_symbol"] = m.BitsPerSymbol
	out["payload_encoding"] = m.PayloadEncoding.String()
	out["raw_size"] = m.RawSize
	out["encoded_size"] = m.EncodedSize
	out["ordering_strategy"] = m.OrderingStrategy
	if len(m.Permutation) > 0 {
		out["permutation"] = m.Permutation
	}
	if m.Fallback != nil {
		out["fallback"] = map[string]interface{}{
			"type":          m.Fallback.Type,
			"source_format": m.Fallback.SourceFormat,
		}
	}

	return json.Marshal(out)
}

// UnmarshalJSON reads the canonical form back, splitting recognized keys into their
// typed fields and everything else into Extra, preserved untouched for round-trip.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	known := []string{
		"format_version", "codec", "row_count", "column_count", "alphabet",
		"source_format", "checksum_sha256", "block_count", "max_run_length",
		"deviation_column_count", "bitmask_byte_width", "bits_per_symbol",
		"payload_encoding", "raw_size", "encoded_size", "ordering_strategy",
		"permutation", "fallback",
	}
	isKnown := make(map[string]bool, len(known))
	for _, k := range known {
		isKnown[k] = true
	}

	if v, ok := raw["format_version"]; ok {
		_ = json.Unmarshal(v, &m.FormatVersion)
	}
	if v, ok := raw["codec"]; ok {
		var s string
		_ = json.Unmarshal(v, &s)
		if c, ok := format.ParseArchiveCodec(s); ok {
			m.Codec = c
		}
	}
	if v, ok := raw["row_count"]; ok {
		_ = json.Unmarshal(v, &m.RowCount)
	}
	if v, ok := raw["column_count"]; ok {
		_ = json.Unmarshal(v, &m.ColumnCount)
	}
	if v, ok := raw["alphabet"]; ok {
		var s string
		_ = json.Unmarshal(v, &s)
		m.Alphabet = []byte(s)
	}
	if v, ok := raw["source_format"]; ok {
		_ = json.Unmarshal(v, &m.SourceFormat)
	}
	if v, ok := raw["checksum_sha256"]; ok {
		var s string
		_ = json.Unmarshal(v, &s)
		if b, err := hex.DecodeString(s); err == nil && len(b) == len(m.ChecksumSHA256) {
			copy(m.ChecksumSHA256[:], b)
		}
	}
	if v, ok := raw["block_count"]; ok {
		_ = json.Unmarshal(v, &m.BlockCount)
	}
	if v, ok := raw["max_run_length"]; ok {
		_ = json.Unmarshal(v, &m.MaxRunLength)
	}
	if v, ok := raw["deviation_column_count"]; ok {
		_ = json.Unmarshal(v, &m.DeviationColumnCount)
	}
	if v, ok := raw["bitmask_byte_width"]; ok {
		_ = json.Unmarshal(v, &m.BitmaskByteWidth)
	}
	if v, ok := raw["bits_per_symbol"]; ok {
		_ = json.Unmarshal(v, &m.BitsPerSymbol)
	}
	if v, ok := raw["payload_encoding"]; ok {
		var s string
		_ = json.Unmarshal(v, &s)
		if p, ok := format.ParsePayloadEncoding(s); ok {
			m.PayloadEncoding = p
		}
	}
	if v, ok := raw["raw_size"]; ok {
		_ = json.Unmarshal(v, &m.RawSize)
	}
	if v, ok := raw["encoded_size"]; ok {
		_ = json.Unmarshal(v, &m.EncodedSize)
	}
	if v, ok := raw["ordering_strategy"]; ok {
		_ = json.Unmarshal(v, &m.OrderingStrategy)
	}
	if v, ok := raw["permutation"]; ok {
		_ = json.Unmarshal(v, &m.Permutation)
	}
	if v, ok := raw["fallback"]; ok {
		var fb Fallback
		if err := json.Unmarshal(v, &fb); err == nil {
			m.Fallback = &fb
		}
	}

	for k, v := range raw {
		if !isKnown[k] {
			if m.Extra == nil {
				m.Extra = map[string]json.RawMessage{}
			}
			m.Extra[k] = v
		}
	}

	return nil
}
