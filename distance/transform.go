package distance

import "github.com/nivir/ted/volume"

// sentinel stands in for +Infinity in the parabola envelope arithmetic.
// A large finite value is used instead of math.Inf so that two
// still-unreached lines (sentinel - sentinel) cancel to an exact zero
// difference rather than producing NaN.
const sentinel = 1e30

// Field is the result of a distance transform: the squared distance, in
// nanometers², from every voxel to the nearest source voxel of the mask
// the field was built from.
type Field struct {
	W, H, D int
	data    []float64
}

func (f *Field) flat(x, y, z int) int { return x + y*f.W + z*f.W*f.H }

// At returns the squared distance at c.
func (f *Field) At(c volume.Coord) float64 { return f.data[f.flat(c.X, c.Y, c.Z)] }

// Transform computes the anisotropic squared Euclidean distance transform
// of mask under pitch, per spec.md §4.2. Mask-set voxels have distance 0.
//
// Algorithm: three separable 1-D passes (x, then y, then z), each an exact
// lower envelope of parabolas (Felzenszwalb & Huttenlocher), the axis's
// squared pitch supplying the parabola curvature so passes compose into a
// true anisotropic squared Euclidean distance.
//
// Complexity: O(W*H*D) time, O(W*H*D) memory for the working field plus
// O(max(W,H,D)) per-line scratch space.
func Transform(mask *volume.Mask, pitch volume.Pitch) *Field {
	w, h, d := mask.W, mask.H, mask.D
	data := make([]float64, w*h*d)
	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				idx := x + y*w + z*w*h
				if mask.IsSet(volume.Coord{X: x, Y: y, Z: z}) {
					data[idx] = 0
				} else {
					data[idx] = sentinel
				}
			}
		}
	}

	f := &Field{W: w, H: h, D: d, data: data}
	f.passX(pitch.SqX())
	f.passY(pitch.SqY())
	f.passZ(pitch.SqZ())

	return f
}

// passX runs the 1-D envelope along x for every (y, z) line.
func (f *Field) passX(scale float64) {
	line := make([]float64, f.W)
	for z := 0; z < f.D; z++ {
		for y := 0; y < f.H; y++ {
			base := f.flat(0, y, z)
			copy(line, f.data[base:base+f.W])
			out := envelope1D(line, scale)
			copy(f.data[base:base+f.W], out)
		}
	}
}

// passY runs the 1-D envelope along y for every (x, z) line.
func (f *Field) passY(scale float64) {
	line := make([]float64, f.H)
	for z := 0; z < f.D; z++ {
		for x := 0; x < f.W; x++ {
			for y := 0; y < f.H; y++ {
				line[y] = f.data[f.flat(x, y, z)]
			}
			out := envelope1D(line, scale)
			for y := 0; y < f.H; y++ {
				f.data[f.flat(x, y, z)] = out[y]
			}
		}
	}
}

// passZ runs the 1-D envelope along z for every (x, y) line.
func (f *Field) passZ(scale float64) {
	line := make([]float64, f.D)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			for z := 0; z < f.D; z++ {
				line[z] = f.data[f.flat(x, y, z)]
			}
			out := envelope1D(line, scale)
			for z := 0; z < f.D; z++ {
				f.data[f.flat(x, y, z)] = out[z]
			}
		}
	}
}

// envelope1D computes, for each index q in f, min over p of
// f[p] + scale*(q-p)^2 — the exact 1-D squared distance transform with
// axis curvature scale, via the lower envelope of parabolas.
func envelope1D(f []float64, scale float64) []float64 {
	n := len(f)
	d := make([]float64, n)
	v := make([]int, n)
	z := make([]float64, n+1)

	k := 0
	v[0] = 0
	z[0] = -sentinel
	z[1] = sentinel

	for q := 1; q < n; q++ {
		s := intersect(f, scale, q, v[k])
		for s <= z[k] {
			k--
			s = intersect(f, scale, q, v[k])
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = sentinel
	}

	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dq := float64(q - v[k])
		d[q] = scale*dq*dq + f[v[k]]
	}

	return d
}

// intersect returns the abscissa at which the parabolas rooted at q and p
// cross, per the standard Felzenszwalb–Huttenlocher derivation.
func intersect(f []float64, scale float64, q, p int) float64 {
	fq := f[q] + scale*float64(q*q)
	fp := f[p] + scale*float64(p*p)
	return (fq - fp) / (2 * scale * float64(q-p))
}
