package engine

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// inflateStream decodes a FlateDecode stream payload, which is zlib-wrapped
// deflate. The boolean reports whether decompression happened: on failure
// the literal bytes are returned and the caller treats them as
// already-decoded text, which is the recoverable path for uncompressed
// content streams. Decoding arbitrary bytes as raw deflate is deliberately
// not attempted; it false-positives on plain text.
func inflateStream(data []byte) ([]byte, bool) {
	if len(data) == 0 {
		return data, false
	}
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return data, false
	}
	defer zr.Close()
	decoded, err := io.ReadAll(zr)
	if err != nil {
		return data, false
	}
	return decoded, true
}

// deflateStream re-encodes a rewritten stream payload with the zlib wrapping
// that inflateStream accepts first, so a stamped document round-trips.
func deflateStream(data []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, _ = zw.Write(data)
	_ = zw.Close()
	return buf.Bytes()
}
