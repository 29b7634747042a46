package tensor

import "fmt"

// Elementwise and slicing operations. Shape mismatches here are programmer
// errors (the loss package validates its inputs before calling in), so these
// panic rather than return errors.

func (t *Image) assertSameShape(o *Image, op string) {
	if t.n != o.n || t.h != o.h || t.w != o.w || t.c != o.c {
		panic(fmt.Sprintf("tensor: %s: shape mismatch %v vs %v", op, t.Shape(), o.Shape()))
	}
}

// Add returns the elementwise sum t + o.
func (t *Image) Add(o *Image) *Image {
	t.assertSameShape(o, "add")
	out := t.like(t.h, t.w, t.c)
	for i, v := range t.data {
		out.data[i] = v + o.data[i]
	}
	return out
}

// Sub returns the elementwise difference t - o.
func (t *Image) Sub(o *Image) *Image {
	t.assertSameShape(o, "sub")
	out := t.like(t.h, t.w, t.c)
	for i, v := range t.data {
		out.data[i] = v - o.data[i]
	}
	return out
}

// Mul returns the elementwise product t * o.
func (t *Image) Mul(o *Image) *Image {
	t.assertSameShape(o, "mul")
	out := t.like(t.h, t.w, t.c)
	for i, v := range t.data {
		out.data[i] = v * o.data[i]
	}
	return out
}

// Scale returns t with every element multiplied by s.
func (t *Image) Scale(s float64) *Image {
	out := t.like(t.h, t.w, t.c)
	for i, v := range t.data {
		out.data[i] = v * s
	}
	return out
}

// AddScalar returns t with s added to every element.
func (t *Image) AddScalar(s float64) *Image {
	out := t.like(t.h, t.w, t.c)
	for i, v := range t.data {
		out.data[i] = v + s
	}
	return out
}

// Apply returns t with f applied to every element.
func (t *Image) Apply(f func(float64) float64) *Image {
	out := t.like(t.h, t.w, t.c)
	for i, v := range t.data {
		out.data[i] = f(v)
	}
	return out
}

// SliceChannels returns the channel range [lo, hi) as a new image.
func (t *Image) SliceChannels(lo, hi int) *Image {
	if lo < 0 || hi > t.c || lo >= hi {
		panic(fmt.Sprintf("tensor: slice channels: invalid range [%d, %d) for %d channels", lo, hi, t.c))
	}
	nc := hi - lo
	out := t.like(t.h, t.w, nc)
	src := 0
	dst := 0
	for p := 0; p < t.n*t.h*t.w; p++ {
		copy(out.data[dst:dst+nc], t.data[src+lo:src+hi])
		src += t.c
		dst += nc
	}
	return out
}

// Channel returns channel c as a single-channel image.
func (t *Image) Channel(c int) *Image {
	return t.SliceChannels(c, c+1)
}

// MulBroadcast multiplies every channel of t by the single-channel weight
// map m, which must share t's batch and spatial dimensions.
func (t *Image) MulBroadcast(m *Image) *Image {
	if m.c != 1 || m.n != t.n || m.h != t.h || m.w != t.w {
		panic(fmt.Sprintf("tensor: mul broadcast: weight map shape %v incompatible with %v", m.Shape(), t.Shape()))
	}
	out := t.like(t.h, t.w, t.c)
	for p := 0; p < t.n*t.h*t.w; p++ {
		weight := m.data[p]
		base := p * t.c
		for c := 0; c < t.c; c++ {
			out.data[base+c] = t.data[base+c] * weight
		}
	}
	return out
}

// ShiftClamped returns the image sampled at (h+dy, w+dx) with spatial indices
// clamped to the image borders. The result keeps the input's size, so
// differences of shifted images yield one-sided finite differences at the
// edges and central differences in the interior.
func (t *Image) ShiftClamped(dy, dx int) *Image {
	out := t.like(t.h, t.w, t.c)
	for n := 0; n < t.n; n++ {
		for h := 0; h < t.h; h++ {
			sh := clamp(h+dy, 0, t.h-1)
			for w := 0; w < t.w; w++ {
				sw := clamp(w+dx, 0, t.w-1)
				src := t.index(n, sh, sw, 0)
				dst := out.index(n, h, w, 0)
				copy(out.data[dst:dst+t.c], t.data[src:src+t.c])
			}
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
