package volume

import (
	"fmt"
)

// Coord identifies a single voxel by its (x, y, z) grid position.
type Coord struct {
	X, Y, Z int
}

// Pitch is the physical voxel spacing, in nanometers, along each axis.
type Pitch struct {
	X float64 `validate:"gt=0"`
	Y float64 `validate:"gt=0"`
	Z float64 `validate:"gt=0"`
}

// DefaultPitch returns the TED default spacing (1, 1, 10) nm, matching the
// typical anisotropy of serial-section electron microscopy stacks.
func DefaultPitch() Pitch {
	return Pitch{X: 1, Y: 1, Z: 10}
}

// SqX, SqY, SqZ return the squared per-axis pitch, used by the distance
// transform to weight each axis's contribution to squared distance.
func (p Pitch) SqX() float64 { return p.X * p.X }
func (p Pitch) SqY() float64 { return p.Y * p.Y }
func (p Pitch) SqZ() float64 { return p.Z * p.Z }

// ErrInvalidDimensions indicates that requested volume dimensions are non-positive.
var ErrInvalidDimensions = fmt.Errorf("volume: dimensions must be > 0")

// ErrIndexOutOfBounds indicates that a voxel coordinate lies outside the volume.
var ErrIndexOutOfBounds = fmt.Errorf("volume: index out of bounds")

// ErrSizeMismatch indicates two volumes do not share the same (W, H, D).
var ErrSizeMismatch = fmt.Errorf("volume: dimensions disagree")

// volumeErrorf wraps an underlying error with method and coordinate context.
func volumeErrorf(method string, c Coord, err error) error {
	return fmt.Errorf("Volume.%s(%d,%d,%d): %w", method, c.X, c.Y, c.Z, err)
}

// Volume is a row-major, flat-backed 3-D stack of real-valued labels.
// W, H, D are width, height, depth; data holds W*H*D elements, with voxel
// (x,y,z) at flat offset x + y*W + z*W*H.
type Volume struct {
	W, H, D int
	Pitch   Pitch
	data    []float64
}

// New allocates a W×H×D Volume of zero labels with the given pitch.
// Complexity: O(W*H*D) time and memory.
func New(w, h, d int, pitch Pitch) (*Volume, error) {
	if w <= 0 || h <= 0 || d <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &Volume{W: w, H: h, D: d, Pitch: pitch, data: make([]float64, w*h*d)}, nil
}

// FromSlices builds a Volume from a [z][y][x] nested slice of labels,
// deep-copying the input so later mutation of the caller's slices cannot
// reach back into the Volume.
func FromSlices(labels [][][]float64, pitch Pitch) (*Volume, error) {
	d := len(labels)
	if d == 0 || len(labels[0]) == 0 || len(labels[0][0]) == 0 {
		return nil, ErrInvalidDimensions
	}
	h, w := len(labels[0]), len(labels[0][0])
	vol, err := New(w, h, d, pitch)
	if err != nil {
		return nil, err
	}
	for z := 0; z < d; z++ {
		if len(labels[z]) != h {
			return nil, ErrInvalidDimensions
		}
		for y := 0; y < h; y++ {
			if len(labels[z][y]) != w {
				return nil, ErrInvalidDimensions
			}
			copy(vol.data[vol.flat(0, y, z):vol.flat(0, y, z)+w], labels[z][y])
		}
	}
	return vol, nil
}

// Dims reports (width, height, depth).
func (v *Volume) Dims() (int, int, int) { return v.W, v.H, v.D }

// SameDims reports whether v and other share identical (W, H, D).
func (v *Volume) SameDims(other *Volume) bool {
	return v.W == other.W && v.H == other.H && v.D == other.D
}

// flat computes the linear offset for (x,y,z) without bounds checking;
// callers must validate first via inBounds.
func (v *Volume) flat(x, y, z int) int {
	return x + y*v.W + z*v.W*v.H
}

func (v *Volume) inBounds(c Coord) bool {
	return c.X >= 0 && c.X < v.W && c.Y >= 0 && c.Y < v.H && c.Z >= 0 && c.Z < v.D
}

// At retrieves the label at c.
// Complexity: O(1).
func (v *Volume) At(c Coord) (float64, error) {
	if !v.inBounds(c) {
		return 0, volumeErrorf("At", c, ErrIndexOutOfBounds)
	}
	return v.data[v.flat(c.X, c.Y, c.Z)], nil
}

// MustAt retrieves the label at c, panicking on out-of-bounds coordinates.
// Reserved for hot inner loops (cell extraction) that have already
// validated their iteration bounds against Dims.
func (v *Volume) MustAt(c Coord) float64 {
	return v.data[v.flat(c.X, c.Y, c.Z)]
}

// Set assigns label ℓ at c.
// Complexity: O(1).
func (v *Volume) Set(c Coord, label float64) error {
	if !v.inBounds(c) {
		return volumeErrorf("Set", c, ErrIndexOutOfBounds)
	}
	v.data[v.flat(c.X, c.Y, c.Z)] = label

	return nil
}

// MustSet assigns label ℓ at c without bounds checking; see MustAt.
func (v *Volume) MustSet(c Coord, label float64) {
	v.data[v.flat(c.X, c.Y, c.Z)] = label
}

// Clone returns a deep copy of v.
// Complexity: O(W*H*D).
func (v *Volume) Clone() *Volume {
	data := make([]float64, len(v.data))
	copy(data, v.data)
	return &Volume{W: v.W, H: v.H, D: v.D, Pitch: v.Pitch, data: data}
}

// Equal reports whether v and other have identical dimensions and labels,
// compared bit-exact per spec.md §9 (labels are integers typed as float64).
func (v *Volume) Equal(other *Volume) bool {
	if other == nil || !v.SameDims(other) {
		return false
	}
	for i, x := range v.data {
		if x != other.data[i] {
			return false
		}
	}
	return true
}

// ForEach visits every voxel in z-major, then y, then x order — the
// deterministic scan order the cell extractor and distance transform both
// rely on for reproducible results (spec.md §5).
func (v *Volume) ForEach(fn func(c Coord, label float64)) {
	for z := 0; z < v.D; z++ {
		for y := 0; y < v.H; y++ {
			base := v.flat(0, y, z)
			row := v.data[base : base+v.W]
			for x, label := range row {
				fn(Coord{X: x, Y: y, Z: z}, label)
			}
		}
	}
}

// Rotate90Z returns a new Volume rotated 90° about the z-axis (x,y) ->
// (H-1-y, x), with the x and y pitches swapped.
func (v *Volume) Rotate90Z() *Volume {
	out, _ := New(v.H, v.W, v.D, Pitch{X: v.Pitch.Y, Y: v.Pitch.X, Z: v.Pitch.Z})
	v.ForEach(func(c Coord, label float64) {
		out.MustSet(Coord{X: v.H - 1 - c.Y, Y: c.X, Z: c.Z}, label)
	})
	return out
}

// Mask is a binary volume used as the source set for the distance
// transform: true marks a voxel carrying the reconstruction label under
// consideration.
type Mask struct {
	W, H, D int
	set     []bool
}

// NewMask allocates a W×H×D Mask with every voxel initially unset.
func NewMask(w, h, d int) *Mask {
	return &Mask{W: w, H: h, D: d, set: make([]bool, w*h*d)}
}

func (m *Mask) flat(x, y, z int) int { return x + y*m.W + z*m.W*m.H }

// Set marks voxel c as a source.
func (m *Mask) Set(c Coord) { m.set[m.flat(c.X, c.Y, c.Z)] = true }

// IsSet reports whether voxel c is a source.
func (m *Mask) IsSet(c Coord) bool { return m.set[m.flat(c.X, c.Y, c.Z)] }

// MaskForLabel builds the Mask of voxels in rec carrying exactly label ℓ.
// Complexity: O(W*H*D).
func MaskForLabel(rec *Volume, label float64) *Mask {
	m := NewMask(rec.W, rec.H, rec.D)
	rec.ForEach(func(c Coord, l float64) {
		if l == label {
			m.Set(c)
		}
	})
	return m
}
