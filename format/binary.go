package format

import (
	"encoding/binary"
	"io"
)

// writeVarInt writes a variable-length integer to a writer.
func writeVarInt(w io.Writer, v int64) error {
	buf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutVarint(buf, v)
	_, err := w.Write(buf[:n])
	return err
}

// readVarInt reads a variable-length integer from a reader.
func readVarInt(r io.Reader) (int64, error) {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = &byteReader{r: r}
	}
	return binary.ReadVarint(br)
}

// byteReader wraps an io.Reader to implement io.ByteReader
type byteReader struct {
	r io.Reader
}

func (br *byteReader) ReadByte() (byte, error) {
	b := make([]byte, 1)
	if _, err := io.ReadFull(br.r, b); err != nil {
		return 0, err
	}
	return b[0], nil
}
