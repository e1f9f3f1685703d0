package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/golabel/pkg/label"
)

func writeClouds(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("VERSION 0.7\n"), 0o644))
	}
}

func writeLabels(t *testing.T, path string, files ...string) {
	t.Helper()
	records := make([]label.Record, len(files))
	for i, f := range files {
		records[i] = label.Record{
			File:   f,
			Labels: []label.Label{{Class: "human1", BoundingBoxes: []float64{0, 0, 0, 1, 1, 1, 0}}},
		}
	}
	require.NoError(t, label.WriteRecords(path, records))
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("frame_0001", "frame_0001"))
	assert.Equal(t, 1.0, Ratio("", ""))
	assert.Less(t, Ratio("frame_0001", "zzzz"), 0.3)
	// one substituted character out of ten keeps the ratio high
	assert.Greater(t, Ratio("frame_0001", "frame_0002"), 0.8)
}

func TestClosestStem(t *testing.T) {
	stems := []string{"frame_0001", "frame_0002", "frame_0010"}

	m, ok := ClosestStem("frame_0002", stems, DefaultCutoff)
	require.True(t, ok)
	assert.Equal(t, "frame_0002", m)

	_, ok = ClosestStem("completely-different", stems, DefaultCutoff)
	assert.False(t, ok)
}

func TestStem(t *testing.T) {
	assert.Equal(t, "frame_0001", Stem("frame_0001.pcd"))
	assert.Equal(t, "frame_0001", Stem("frame_0001"))
}

func TestSyncRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeClouds(t, dir, "20240101T1203.pcd", "20240101T1201.pcd", "20240101T1202.pcd")

	jsonPath := filepath.Join(dir, "labels.json")
	// references carry a stale extension and arrive out of order
	writeLabels(t, jsonPath, "20240101T1202.png", "20240101T1201.png", "20240101T1203.png")

	n, err := Sync(jsonPath, dir, DefaultCutoff)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	records, err := label.ReadRecords(jsonPath)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// rewritten to the matched cloud filenames, sorted ascending by stem
	assert.Equal(t, "20240101T1201.pcd", records[0].File)
	assert.Equal(t, "20240101T1202.pcd", records[1].File)
	assert.Equal(t, "20240101T1203.pcd", records[2].File)

	// labels travel with their record through the re-sort
	assert.Equal(t, "human1", records[0].Labels[0].Class)
}

func TestSyncCountMismatch(t *testing.T) {
	dir := t.TempDir()
	writeClouds(t, dir, "a.pcd", "b.pcd")

	jsonPath := filepath.Join(dir, "labels.json")
	writeLabels(t, jsonPath, "a.png", "b.png", "c.png")

	before, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	_, err = Sync(jsonPath, dir, DefaultCutoff)
	var mismatch *CountMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.Records)
	assert.Equal(t, 2, mismatch.Files)

	// aborted reconciliation leaves the file byte-for-byte unchanged
	after, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSyncNoMatch(t *testing.T) {
	dir := t.TempDir()
	writeClouds(t, dir, "20240101T1201.pcd", "20240101T1202.pcd")

	jsonPath := filepath.Join(dir, "labels.json")
	writeLabels(t, jsonPath, "20240101T1201.png", "zzzzzz.png")

	before, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	_, err = Sync(jsonPath, dir, DefaultCutoff)
	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, "zzzzzz.png", noMatch.File)

	after, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestListClouds(t *testing.T) {
	dir := t.TempDir()
	writeClouds(t, dir, "b.pcd", "a.PCD")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pcd"), 0o755))

	files, err := ListClouds(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.PCD", "b.pcd"}, files)
}

func TestFindCloudDirectReference(t *testing.T) {
	dir := t.TempDir()
	writeClouds(t, dir, "frame_0001.pcd")

	got, err := FindCloud(dir, "frame_0001.pcd", DefaultCutoff)
	require.NoError(t, err)
	assert.Equal(t, "frame_0001.pcd", got)
}

func TestFindCloudPrefixBeatsFuzzy(t *testing.T) {
	dir := t.TempDir()
	writeClouds(t, dir, "cloud_img42_20240101.pcd", "img42.pcd")

	// the exact prefix form wins even though img42.pcd is the closer stem
	got, err := FindCloud(dir, "img42.png", DefaultCutoff)
	require.NoError(t, err)
	assert.Equal(t, "cloud_img42_20240101.pcd", got)
}

func TestFindCloudFuzzyFallback(t *testing.T) {
	dir := t.TempDir()
	writeClouds(t, dir, "frame_0001.pcd", "frame_0002.pcd")

	got, err := FindCloud(dir, "frame_0002.jpg", DefaultCutoff)
	require.NoError(t, err)
	assert.Equal(t, "frame_0002.pcd", got)
}

func TestFindCloudNoMatch(t *testing.T) {
	dir := t.TempDir()
	writeClouds(t, dir, "frame_0001.pcd")

	_, err := FindCloud(dir, "unrelated-name.jpg", DefaultCutoff)
	assert.ErrorIs(t, err, ErrNoCloud)
}
