package volume_test

import (
	"testing"

	"github.com/nivir/ted/volume"
	"github.com/stretchr/testify/require"
)

func TestNewInvalidDimensions(t *testing.T) {
	_, err := volume.New(0, 2, 2, volume.DefaultPitch())
	require.ErrorIs(t, err, volume.ErrInvalidDimensions)
}

func TestAtSetRoundTrip(t *testing.T) {
	v, err := volume.New(2, 2, 1, volume.DefaultPitch())
	require.NoError(t, err)

	require.NoError(t, v.Set(volume.Coord{X: 1, Y: 0, Z: 0}, 7))
	got, err := v.At(volume.Coord{X: 1, Y: 0, Z: 0})
	require.NoError(t, err)
	require.Equal(t, 7.0, got)

	other, err := v.At(volume.Coord{X: 0, Y: 0, Z: 0})
	require.NoError(t, err)
	require.Equal(t, 0.0, other)
}

func TestAtOutOfBounds(t *testing.T) {
	v, err := volume.New(2, 2, 1, volume.DefaultPitch())
	require.NoError(t, err)

	_, err = v.At(volume.Coord{X: -1, Y: 0, Z: 0})
	require.ErrorIs(t, err, volume.ErrIndexOutOfBounds)

	_, err = v.At(volume.Coord{X: 2, Y: 0, Z: 0})
	require.ErrorIs(t, err, volume.ErrIndexOutOfBounds)
}

func TestFromSlicesRejectsRagged(t *testing.T) {
	_, err := volume.FromSlices([][][]float64{
		{{1, 2}, {3}},
	}, volume.DefaultPitch())
	require.ErrorIs(t, err, volume.ErrInvalidDimensions)
}

func TestEqualAndClone(t *testing.T) {
	v, err := volume.FromSlices([][][]float64{{{1, 1}, {1, 2}}}, volume.DefaultPitch())
	require.NoError(t, err)

	clone := v.Clone()
	require.True(t, v.Equal(clone))

	require.NoError(t, clone.Set(volume.Coord{X: 0, Y: 0, Z: 0}, 9))
	require.False(t, v.Equal(clone))
}

func TestRotate90ZPreservesLabelMultiset(t *testing.T) {
	v, err := volume.FromSlices([][][]float64{{
		{1, 1},
		{2, 2},
	}}, volume.Pitch{X: 1, Y: 1, Z: 1})
	require.NoError(t, err)

	rotated := v.Rotate90Z()
	w, h, d := rotated.Dims()
	require.Equal(t, 2, w)
	require.Equal(t, 2, h)
	require.Equal(t, 1, d)

	counts := map[float64]int{}
	rotated.ForEach(func(_ volume.Coord, label float64) { counts[label]++ })
	require.Equal(t, 2, counts[1])
	require.Equal(t, 2, counts[2])
}

func TestMaskForLabel(t *testing.T) {
	v, err := volume.FromSlices([][][]float64{{
		{1, 2},
		{2, 2},
	}}, volume.DefaultPitch())
	require.NoError(t, err)

	mask := volume.MaskForLabel(v, 2)
	require.False(t, mask.IsSet(volume.Coord{X: 0, Y: 0, Z: 0}))
	require.True(t, mask.IsSet(volume.Coord{X: 1, Y: 0, Z: 0}))
	require.True(t, mask.IsSet(volume.Coord{X: 0, Y: 1, Z: 0}))
}
