package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
// Contents are unspecified when capacity is reused.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Fill sets every element of buf to v.
func Fill(buf []float64, v float64) {
	for i := range buf {
		buf[i] = v
	}
}

// Clone returns a copy of src that shares no memory with it. A nil src
// gives a nil result.
func Clone(src []float64) []float64 {
	if src == nil {
		return nil
	}
	return append(make([]float64, 0, len(src)), src...)
}
