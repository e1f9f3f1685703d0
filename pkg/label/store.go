package label

import (
	"errors"
	"fmt"
	"strings"

	"github.com/philipparndt/golabel/pkg/geometry"
)

// ErrIndex marks frame or label indices outside the store's current range.
// Use errors.Is to test for it; the concrete error is an *IndexError.
var ErrIndex = errors.New("index out of range")

// ErrExtent marks box writes whose width, height or depth is not positive
var ErrExtent = errors.New("box extents must be positive")

// IndexError reports which index was out of range and what the valid range was
type IndexError struct {
	Kind  string // "frame" or "label"
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range (have %d)", e.Kind, e.Index, e.Count)
}

func (e *IndexError) Unwrap() error { return ErrIndex }

// EditedSuffix marks the session-save output file
const editedSuffix = "_edited"

// Store owns every frame, label and box for one editing session. All
// mutation of annotation data goes through it; rendering layers read
// derived geometry on demand and never cache box parameters.
type Store struct {
	path    string
	records []Record
}

// Load reads a label file and wraps it in a Store
func Load(path string) (*Store, error) {
	records, err := ReadRecords(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, records: records}, nil
}

// NewStore wraps an in-memory record list, mainly for tests
func NewStore(path string, records []Record) *Store {
	return &Store{path: path, records: records}
}

// Path returns the file the store was loaded from
func (s *Store) Path() string { return s.path }

// FrameCount returns the number of frames in the session
func (s *Store) FrameCount() int { return len(s.records) }

// Records exposes the raw record list for serialization and reporting.
// Callers must not mutate it.
func (s *Store) Records() []Record { return s.records }

func (s *Store) frame(idx int) (*Record, error) {
	if idx < 0 || idx >= len(s.records) {
		return nil, &IndexError{Kind: "frame", Index: idx, Count: len(s.records)}
	}
	return &s.records[idx], nil
}

func (s *Store) label(frameIdx, labelIdx int) (*Label, error) {
	rec, err := s.frame(frameIdx)
	if err != nil {
		return nil, err
	}
	if labelIdx < 0 || labelIdx >= len(rec.Labels) {
		return nil, &IndexError{Kind: "label", Index: labelIdx, Count: len(rec.Labels)}
	}
	return &rec.Labels[labelIdx], nil
}

// File returns the point-cloud file reference of a frame
func (s *Store) File(frameIdx int) (string, error) {
	rec, err := s.frame(frameIdx)
	if err != nil {
		return "", err
	}
	return rec.File, nil
}

// Classes returns the class names of a frame's labels, in label order
func (s *Store) Classes(frameIdx int) ([]string, error) {
	rec, err := s.frame(frameIdx)
	if err != nil {
		return nil, err
	}
	classes := make([]string, len(rec.Labels))
	for i, l := range rec.Labels {
		classes[i] = l.Class
	}
	return classes, nil
}

// LabelCount returns the number of labels in a frame
func (s *Store) LabelCount(frameIdx int) (int, error) {
	rec, err := s.frame(frameIdx)
	if err != nil {
		return 0, err
	}
	return len(rec.Labels), nil
}

// GetBox returns a label's decoded box parameters
func (s *Store) GetBox(frameIdx, labelIdx int) (BoxParams, error) {
	l, err := s.label(frameIdx, labelIdx)
	if err != nil {
		return BoxParams{}, err
	}
	return ParseParams(l.BoundingBoxes)
}

// SetBox replaces a label's box parameters. The box extents must be positive.
// When p.Extra is nil the label's existing trailing values are kept; a
// non-nil Extra replaces them.
func (s *Store) SetBox(frameIdx, labelIdx int, p BoxParams) error {
	l, err := s.label(frameIdx, labelIdx)
	if err != nil {
		return err
	}
	if p.Box.Size.X <= 0 || p.Box.Size.Y <= 0 || p.Box.Size.Z <= 0 {
		return fmt.Errorf("%w: got %g x %g x %g", ErrExtent, p.Box.Size.X, p.Box.Size.Y, p.Box.Size.Z)
	}
	if p.Extra == nil {
		if cur, err := ParseParams(l.BoundingBoxes); err == nil {
			p.Extra = cur.Extra
		}
	}
	l.BoundingBoxes = p.Params()
	return nil
}

// AddLabel appends a label with the given class name and a default unit-size,
// zero-yaw box at the given center, and returns its index. Two reserved
// trailing slots are written after the seven box values, matching the files
// this tool's upstream pipeline produces.
func (s *Store) AddLabel(frameIdx int, class string, center geometry.Vector3) (int, error) {
	rec, err := s.frame(frameIdx)
	if err != nil {
		return 0, err
	}
	p := BoxParams{
		Box:   geometry.Box{Center: center, Size: geometry.NewVector3(1, 1, 1)},
		Extra: []float64{0, 0},
	}
	rec.Labels = append(rec.Labels, Label{Class: class, BoundingBoxes: p.Params()})
	return len(rec.Labels) - 1, nil
}

// DeleteLabel removes the label at the given index; all later labels shift
// down by one. Selections held outside the store must be recomputed by the
// caller.
func (s *Store) DeleteLabel(frameIdx, labelIdx int) error {
	rec, err := s.frame(frameIdx)
	if err != nil {
		return err
	}
	if labelIdx < 0 || labelIdx >= len(rec.Labels) {
		return &IndexError{Kind: "label", Index: labelIdx, Count: len(rec.Labels)}
	}
	rec.Labels = append(rec.Labels[:labelIdx], rec.Labels[labelIdx+1:]...)
	return nil
}

// RenameLabel changes a label's class name. Empty or unchanged names are a
// no-op.
func (s *Store) RenameLabel(frameIdx, labelIdx int, name string) error {
	l, err := s.label(frameIdx, labelIdx)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" || name == l.Class {
		return nil
	}
	l.Class = name
	return nil
}

// EditedPath derives the session-save location from a label file path,
// leaving the original input untouched
func EditedPath(path string) string {
	if strings.HasSuffix(path, ".json") {
		return strings.TrimSuffix(path, ".json") + editedSuffix + ".json"
	}
	return path + editedSuffix
}

// Save writes the full record list to the derived "_edited" location and
// returns the path written
func (s *Store) Save() (string, error) {
	out := EditedPath(s.path)
	if err := WriteRecords(out, s.records); err != nil {
		return "", err
	}
	return out, nil
}

// SaveTo writes the full record list to an explicit path
func (s *Store) SaveTo(path string) error {
	return WriteRecords(path, s.records)
}
