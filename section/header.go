// Package section frames the fixed-size archive header: magic,
// three version bytes, payload length, and metadata length.
package section

import (
	"github.com/JLSteenwyk/ecomp/endian"
	"github.com/JLSteenwyk/ecomp/errs"
)

// Magic is the 4-byte archive magic at header offset 0.
const Magic = "ECMP"

// HeaderSize is the current (version-2) fixed header size in bytes:
// magic(4) + major/minor/patch(3) + payload_len u64(8) + metadata_len u32(4) = 19.
const HeaderSize = 19

// LegacyHeaderSize is the older 5-field header size: magic(4) + major/minor/patch(3) +
// payload_len u32(4), padded to 16 bytes with reserved zero bytes.
const LegacyHeaderSize = 16

const legacyPayloadLenSize = 4

// archiveEndian is the byte order the archive header and all its fields use: big-endian
// throughout, through endian.EndianEngine rather than a hand-rolled big-endian helper.
// The in-payload permutation chunk does not use this interface; it writes its
// little-endian indices with its own helpers.
var archiveEndian = endian.GetBigEndianEngine()

// Header is the fixed archive header: magic is implicit (validated, never stored), the
// three version bytes, the payload length, and the metadata blob length.
type Header struct {
	Major, Minor, Patch uint8
	PayloadLen          uint64
	MetadataLen         uint32
}

// NewHeader creates a Header for a structured payload of the given lengths at the
// given version.
func NewHeader(major, minor, patch uint8, payloadLen uint64, metadataLen uint32) Header {
	return Header{Major: major, Minor: minor, Patch: patch, PayloadLen: payloadLen, MetadataLen: metadataLen}
}

// Bytes serializes the header to its 19-byte wire form.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	copy(b[0:4], Magic)
	b[4] = h.Major
	b[5] = h.Minor
	b[6] = h.Patch
	archiveEndian.PutUint64(b[7:15], h.PayloadLen)
	archiveEndian.PutUint32(b[15:19], h.MetadataLen)

	return b
}

// ParseHeader parses a version-2 (19-byte) header, validating the magic.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.Format(errs.ErrTruncated)
	}
	if string(data[0:4]) != Magic {
		return Header{}, errs.Format(errs.ErrBadMagic)
	}

	return Header{
		Major:       data[4],
		Minor:       data[5],
		Patch:       data[6],
		PayloadLen:  archiveEndian.Uint64(data[7:15]),
		MetadataLen: archiveEndian.Uint32(data[15:19]),
	}, nil
}

// LegacyHeader is the older 5-field header (no metadata length; metadata lives in a
// sibling .json file).
type LegacyHeader struct {
	Major, Minor, Patch uint8
	PayloadLen          uint64
}

// ParseLegacyHeader parses a legacy 16-byte header, validating the magic. The trailing
// bytes after the 4-byte payload length are reserved and ignored.
func ParseLegacyHeader(data []byte) (LegacyHeader, error) {
	if len(data) < LegacyHeaderSize {
		return LegacyHeader{}, errs.Format(errs.ErrTruncated)
	}
	if string(data[0:4]) != Magic {
		return LegacyHeader{}, errs.Format(errs.ErrBadMagic)
	}

	return LegacyHeader{
		Major:      data[4],
		Minor:      data[5],
		Patch:      data[6],
		PayloadLen: uint64(archiveEndian.Uint32(data[7 : 7+legacyPayloadLenSize])),
	}, nil
}
