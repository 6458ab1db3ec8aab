package line

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellsSinglePoint(t *testing.T) {
	assert.Equal(t, []image.Point{image.Pt(3, 3)}, Cells(3, 3, 3, 3))
}

func TestCellsHorizontal(t *testing.T) {
	got := Cells(0, 2, 4, 2)
	assert.Equal(t, []image.Point{
		image.Pt(0, 2), image.Pt(1, 2), image.Pt(2, 2), image.Pt(3, 2), image.Pt(4, 2),
	}, got)

	// runs first to second regardless of direction
	rev := Cells(4, 2, 0, 2)
	assert.Equal(t, image.Pt(4, 2), rev[0])
	assert.Equal(t, image.Pt(0, 2), rev[len(rev)-1])
}

func TestCellsVertical(t *testing.T) {
	got := Cells(1, 0, 1, 3)
	assert.Equal(t, []image.Point{
		image.Pt(1, 0), image.Pt(1, 1), image.Pt(1, 2), image.Pt(1, 3),
	}, got)
}

func TestCellsDiagonal(t *testing.T) {
	got := Cells(0, 0, 3, 3)
	assert.Equal(t, []image.Point{
		image.Pt(0, 0), image.Pt(1, 1), image.Pt(2, 2), image.Pt(3, 3),
	}, got)
}

func TestCellsShallow(t *testing.T) {
	got := Cells(0, 0, 6, 2)
	require.NotEmpty(t, got)

	assert.Equal(t, image.Pt(0, 0), got[0])
	assert.Equal(t, image.Pt(6, 2), got[len(got)-1])

	// each step moves exactly one cell in x, at most one in y
	for i := 1; i < len(got); i++ {
		assert.Equal(t, 1, got[i].X-got[i-1].X)
		dy := got[i].Y - got[i-1].Y
		assert.True(t, dy == 0 || dy == 1)
	}
}

func TestCellsSteep(t *testing.T) {
	got := Cells(0, 0, 2, 6)
	assert.Equal(t, image.Pt(0, 0), got[0])
	assert.Equal(t, image.Pt(2, 6), got[len(got)-1])
	assert.Len(t, got, 7)
}
