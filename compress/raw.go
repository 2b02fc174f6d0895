package compress

// RawCodec is the identity contest candidate (format.PayloadRaw): it stores the
// structured payload unchanged. It always wins the contest on data that is already
// dense (no redundancy left for a general compressor to exploit), and gives the
// contest a strict lower bound to beat.
type RawCodec struct{}

var _ Codec = RawCodec{}

// NewRawCodec creates a RawCodec.
func NewRawCodec() RawCodec {
	return RawCodec{}
}

// Compress returns data unchanged.
func (c RawCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged.
func (c RawCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
