package audio

// Samples are left-justified in the low 24 bits of each word, two's complement.
const (
	s24Scale = 8_388_608.0 // 2^23
	s24Max   = 8_388_607
	s24Mask  = 0x00FF_FFFF
)

// S24ToFloat converts a 24-bit sample word to [-1, 1).
func S24ToFloat(w uint32) float32 {
	v := int32(w<<8) >> 8
	return float32(v) / s24Scale
}

// FloatToS24 converts [-1, 1] to a 24-bit sample word, clipping outside it.
func FloatToS24(f float32) uint32 {
	if f > 1 {
		f = 1
	} else if f < -1 {
		f = -1
	}
	v := f * s24Scale
	if v > s24Max {
		v = s24Max
	}
	return uint32(int32(v)) & s24Mask
}

// ForEachFrame walks interleaved stereo frames of a block, handing fn each
// input frame as floats and writing back what it returns.
func ForEachFrame(b Block, fn func(l, r float32) (float32, float32)) {
	n := len(b.In)
	if len(b.Out) < n {
		n = len(b.Out)
	}
	for i := 0; i+1 < n; i += 2 {
		l, r := fn(S24ToFloat(b.In[i]), S24ToFloat(b.In[i+1]))
		b.Out[i] = FloatToS24(l)
		b.Out[i+1] = FloatToS24(r)
	}
}

// Passthrough copies input to output unchanged.
var Passthrough = HandlerFunc(func(b Block) { copy(b.Out, b.In) })
