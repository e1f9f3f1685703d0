// Package reconcile aligns label records with the point-cloud files they
// reference. Filenames in a label file are not guaranteed to match the
// directory contents exactly, so records are fuzzy-matched against the
// directory by stem and rewritten in one all-or-nothing pass.
package reconcile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xrash/smetrics"

	"github.com/philipparndt/golabel/pkg/label"
)

// DefaultCutoff is the minimum similarity ratio a fuzzy match must reach
const DefaultCutoff = 0.6

// CloudExt is the point-cloud file extension
const CloudExt = ".pcd"

// CountMismatchError reports that the label file and the point-cloud
// directory disagree about the number of frames. Reconciliation does not
// guess in that case.
type CountMismatchError struct {
	Records int
	Files   int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("label file has %d records, but found %d %s files", e.Records, e.Files, CloudExt)
}

// NoMatchError reports a record whose file reference matched nothing in the
// directory above the cutoff
type NoMatchError struct {
	File string
	Dir  string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("could not match %q to any %s file in %s", e.File, CloudExt, e.Dir)
}

// ErrNoCloud is returned by FindCloud when a frame's reference resolves to
// no point-cloud file at all
var ErrNoCloud = errors.New("no point-cloud file found")

// IsReconciliationError reports whether err is one of the conditions that
// abort a Sync without touching the label file. Callers typically surface
// these as warnings and continue with the unreconciled data.
func IsReconciliationError(err error) bool {
	var countErr *CountMismatchError
	var matchErr *NoMatchError
	return errors.As(err, &countErr) || errors.As(err, &matchErr)
}

// Stem returns a filename without its extension
func Stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Ratio computes an edit-distance-based similarity in [0,1]. Substitutions
// count double, so the value matches the classic ratio of matched characters
// over total length.
func Ratio(a, b string) float64 {
	if len(a)+len(b) == 0 {
		return 1
	}
	d := smetrics.WagnerFischer(a, b, 1, 1, 2)
	return 1 - float64(d)/float64(len(a)+len(b))
}

// ClosestStem returns the single best-scoring candidate with similarity at
// least cutoff, and whether one was found
func ClosestStem(target string, candidates []string, cutoff float64) (string, bool) {
	best := ""
	bestScore := -1.0
	for _, c := range candidates {
		if r := Ratio(target, c); r > bestScore {
			best, bestScore = c, r
		}
	}
	if bestScore < cutoff {
		return "", false
	}
	return best, true
}

// ListClouds returns the point-cloud filenames in a directory, sorted
func ListClouds(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), CloudExt) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// Sync rewrites a label file so that every record's File field names an
// actual point-cloud file in dir, then re-sorts the records by filename stem.
// Filenames are assumed to encode a timestamp, so lexicographic order equals
// chronological order.
//
// The transform is all-or-nothing: if the record and file counts differ, or
// any record fails to fuzzy-match above cutoff, nothing is written and a
// CountMismatchError or NoMatchError describes the problem. On success the
// file is overwritten in place (via a temp file, so an interrupted write
// cannot truncate it) and the number of records is returned.
func Sync(jsonPath, dir string, cutoff float64) (int, error) {
	records, err := label.ReadRecords(jsonPath)
	if err != nil {
		return 0, err
	}
	files, err := ListClouds(dir)
	if err != nil {
		return 0, err
	}

	if len(records) != len(files) {
		return 0, &CountMismatchError{Records: len(records), Files: len(files)}
	}

	stems := make([]string, len(files))
	byStem := make(map[string]string, len(files))
	for i, f := range files {
		stems[i] = Stem(f)
		byStem[stems[i]] = f
	}

	// resolve every record before mutating any of them
	matched := make([]string, len(records))
	for i, rec := range records {
		m, ok := ClosestStem(Stem(rec.File), stems, cutoff)
		if !ok {
			return 0, &NoMatchError{File: rec.File, Dir: dir}
		}
		matched[i] = byStem[m]
	}

	for i := range records {
		records[i].File = matched[i]
	}
	sort.Slice(records, func(i, j int) bool {
		return Stem(records[i].File) < Stem(records[j].File)
	})

	if err := writeAtomic(jsonPath, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// writeAtomic writes the records next to the target and renames over it
func writeAtomic(path string, records []label.Record) error {
	tmp := path + ".tmp"
	if err := label.WriteRecords(tmp, records); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// FindCloud resolves one frame's (possibly unreconciled or renamed) file
// reference to a point-cloud filename in dir, without mutating anything.
// A reference already naming an existing cloud file wins; otherwise an exact
// "cloud_<stem>_" prefix match is tried before falling back to the fuzzy
// match used by Sync.
func FindCloud(dir, fileRef string, cutoff float64) (string, error) {
	if strings.EqualFold(filepath.Ext(fileRef), CloudExt) {
		if _, err := os.Stat(filepath.Join(dir, fileRef)); err == nil {
			return fileRef, nil
		}
	}

	files, err := ListClouds(dir)
	if err != nil {
		return "", err
	}

	stem := Stem(fileRef)
	prefix := "cloud_" + stem + "_"
	for _, f := range files {
		if strings.HasPrefix(f, prefix) {
			return f, nil
		}
	}

	stems := make([]string, len(files))
	byStem := make(map[string]string, len(files))
	for i, f := range files {
		stems[i] = Stem(f)
		byStem[stems[i]] = f
	}
	if m, ok := ClosestStem(stem, stems, cutoff); ok {
		return byStem[m], nil
	}
	return "", fmt.Errorf("%w for %q in %s", ErrNoCloud, fileRef, dir)
}
