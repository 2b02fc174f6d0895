// Package varint provides the unsigned LEB128-style varints used throughout the codec's
// wire format: bitmask mode-1 sparse deltas, block-entry deviation_count/
// mask_payload_length fields, and the ECID block length prefix. Math is delegated
// straight to encoding/binary's PutUvarint/Uvarint.
package varint

import "encoding/binary"

// MaxLen is the maximum number of bytes a single uint64 varint can occupy.
const MaxLen = binary.MaxVarintLen64

// Append appends the LEB128 encoding of v to buf and returns the extended slice.
func Append(buf []byte, v uint64) []byte {
	var tmp [MaxLen]byte
	n := binary.PutUvarint(tmp[:], v)

	return append(buf, tmp[:n]...)
}

// Read decodes a single varint from the start of buf, returning the value, the number
// of bytes consumed, and false if buf does not contain a complete varint.
func Read(buf []byte) (value uint64, n int, ok bool) {
	v, n := binary.Uvarint(buf)
	if n <= 0 {
		return 0, 0, false
	}

	return v, n, true
}

// Len returns the number of bytes Append(nil, v) would produce.
func Len(v uint64) int {
	var tmp [MaxLen]byte

	return binary.PutUvarint(tmp[:], v)
}
