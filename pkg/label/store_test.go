package label

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/golabel/pkg/geometry"
)

func testRecords() []Record {
	return []Record{
		{
			File: "cloud_001.pcd",
			Labels: []Label{
				{Class: "human1", BoundingBoxes: []float64{1, 2, 3, 1, 1, 1, 0, 0.5, -0.5}},
				{Class: "human2", BoundingBoxes: []float64{4, 5, 6, 2, 2, 2, 0.3}},
				{Class: "human3", BoundingBoxes: []float64{7, 8, 9, 3, 3, 3, 1.1}},
			},
		},
		{File: "cloud_002.pcd"},
	}
}

func TestParseParams(t *testing.T) {
	p, err := ParseParams([]float64{1, 2, 3, 4, 5, 6, 0.7, 9, 9})
	require.NoError(t, err)
	assert.Equal(t, geometry.NewVector3(1, 2, 3), p.Box.Center)
	assert.Equal(t, geometry.NewVector3(4, 5, 6), p.Box.Size)
	assert.Equal(t, 0.7, p.Box.Yaw)
	assert.Equal(t, []float64{9, 9}, p.Extra)

	_, err = ParseParams([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestParamsRoundTrip(t *testing.T) {
	in := []float64{1, 2, 3, 4, 5, 6, 0.7, 1.5, -2.5}
	p, err := ParseParams(in)
	require.NoError(t, err)
	assert.Equal(t, in, p.Params())
}

func TestGetBoxIndexErrors(t *testing.T) {
	s := NewStore("labels.json", testRecords())

	_, err := s.GetBox(5, 0)
	assert.ErrorIs(t, err, ErrIndex)

	_, err = s.GetBox(0, 3)
	assert.ErrorIs(t, err, ErrIndex)

	_, err = s.GetBox(1, 0)
	assert.ErrorIs(t, err, ErrIndex, "frame without labels has no label 0")
}

func TestSetBoxPreservesTail(t *testing.T) {
	s := NewStore("labels.json", testRecords())

	p, err := s.GetBox(0, 0)
	require.NoError(t, err)
	p.Box.Center.X = 42
	p.Extra = nil // not supplying a tail must keep the stored one

	require.NoError(t, s.SetBox(0, 0, p))

	got, err := s.GetBox(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 42.0, got.Box.Center.X)
	assert.Equal(t, []float64{0.5, -0.5}, got.Extra)
}

func TestSetBoxReplacesTail(t *testing.T) {
	s := NewStore("labels.json", testRecords())

	p, err := s.GetBox(0, 0)
	require.NoError(t, err)
	p.Extra = []float64{7}
	require.NoError(t, s.SetBox(0, 0, p))

	got, err := s.GetBox(0, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{7}, got.Extra)
}

func TestSetBoxRejectsNonPositiveExtents(t *testing.T) {
	s := NewStore("labels.json", testRecords())

	p, err := s.GetBox(0, 0)
	require.NoError(t, err)
	before := p.Params()

	p.Box.Size.Y = 0
	assert.ErrorIs(t, s.SetBox(0, 0, p), ErrExtent)

	// rejected write must not be partially applied
	got, err := s.GetBox(0, 0)
	require.NoError(t, err)
	assert.Equal(t, before, got.Params())
}

func TestAddLabel(t *testing.T) {
	s := NewStore("labels.json", testRecords())

	idx, err := s.AddLabel(1, "human1", geometry.NewVector3(1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	p, err := s.GetBox(1, idx)
	require.NoError(t, err)
	assert.Equal(t, geometry.NewVector3(1, 2, 3), p.Box.Center)
	assert.Equal(t, geometry.NewVector3(1, 1, 1), p.Box.Size)
	assert.Equal(t, 0.0, p.Box.Yaw)
	assert.Equal(t, []float64{0, 0}, p.Extra)

	classes, err := s.Classes(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"human1"}, classes)
}

func TestDeleteLabelShiftsIndices(t *testing.T) {
	s := NewStore("labels.json", testRecords())

	require.NoError(t, s.DeleteLabel(0, 1))

	classes, err := s.Classes(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"human1", "human3"}, classes)

	// former index 2 is now index 1
	p, err := s.GetBox(0, 1)
	require.NoError(t, err)
	assert.Equal(t, geometry.NewVector3(7, 8, 9), p.Box.Center)

	assert.ErrorIs(t, s.DeleteLabel(0, 2), ErrIndex)
}

func TestRenameLabel(t *testing.T) {
	s := NewStore("labels.json", testRecords())

	require.NoError(t, s.RenameLabel(0, 0, "walker"))
	classes, _ := s.Classes(0)
	assert.Equal(t, "walker", classes[0])

	// empty and unchanged names are no-ops
	require.NoError(t, s.RenameLabel(0, 0, "   "))
	require.NoError(t, s.RenameLabel(0, 0, "walker"))
	classes, _ = s.Classes(0)
	assert.Equal(t, "walker", classes[0])

	assert.ErrorIs(t, s.RenameLabel(0, 9, "x"), ErrIndex)
}

func TestEditedPath(t *testing.T) {
	assert.Equal(t, "run7_edited.json", EditedPath("run7.json"))
	assert.Equal(t, "labels_edited", EditedPath("labels"))
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.json")
	require.NoError(t, WriteRecords(path, testRecords()))

	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.RenameLabel(0, 0, "walker"))

	out, err := s.Save()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "labels_edited.json"), out)

	// the original input stays untouched
	orig, err := ReadRecords(path)
	require.NoError(t, err)
	assert.Equal(t, "human1", orig[0].Labels[0].Class)

	edited, err := ReadRecords(out)
	require.NoError(t, err)
	assert.Equal(t, "walker", edited[0].Labels[0].Class)
	assert.Equal(t, testRecords()[0].Labels[0].BoundingBoxes, edited[0].Labels[0].BoundingBoxes)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
