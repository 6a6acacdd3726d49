package binio

// ReadFloat32Array reads n consecutive little-endian float32 values.
func ReadFloat32Array(r *Reader, n int) ([]float32, error) {
	out := make([]float32, n)
	for i := range out {
		v, err := ReadScalar[float32](r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// WriteFloat32Array writes vals as consecutive little-endian float32 values.
func WriteFloat32Array(w *Writer, vals []float32) {
	for _, v := range vals {
		WriteScalar(w, v)
	}
}
