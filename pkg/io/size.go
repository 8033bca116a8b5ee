package io

// GetVarSize returns the number of bytes the var-uint encoding of value
// takes.
func GetVarSize(value uint64) int {
	switch {
	case value < 0xFD:
		return 1
	case value <= 0xFFFF:
		return 3
	case value <= 0xFFFFFFFF:
		return 5
	default:
		return 9
	}
}

// GetVarBytesSize returns the size of a length-prefixed byte slice.
func GetVarBytesSize(b []byte) int {
	return GetVarSize(uint64(len(b))) + len(b)
}

// GetVarStringSize returns the size of a length-prefixed string.
func GetVarStringSize(s string) int {
	return GetVarSize(uint64(len(s))) + len(s)
}

// GetSize returns the size of the binary encoding of s.
func GetSize(s encodable) int {
	var c counter
	w := NewBinWriterFromIO(&c)
	s.EncodeBinary(w)
	if w.Err != nil {
		return -1
	}
	return int(c)
}

type counter int

func (c *counter) Write(p []byte) (int, error) {
	*c += counter(len(p))
	return len(p), nil
}
