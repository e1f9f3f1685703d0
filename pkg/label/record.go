// Package label holds the annotation data model: point-cloud frame records,
// the labels attached to each frame and the oriented-box parameters behind
// every label. The Store type in this package is the single source of truth
// for one editing session; views only ever read derived geometry from it.
package label

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/philipparndt/golabel/pkg/geometry"
)

// Record is one point-cloud frame's annotations as stored on disk.
type Record struct {
	File   string  `json:"File"`
	Labels []Label `json:"Labels"`
}

// Label is one annotated object instance within a frame. Labels have no
// stable id; they are identified by their position in the frame's list.
type Label struct {
	Class         string    `json:"Class"`
	BoundingBoxes []float64 `json:"BoundingBoxes"`
}

// boxParamCount is the number of interpreted bounding-box values:
// cx, cy, cz, w, h, d, yaw. Anything after that is an opaque tail.
const boxParamCount = 7

// BoxParams is the decoded form of a label's BoundingBoxes list: the seven
// oriented-box values plus any trailing scalars. The tail is not interpreted
// by this tool but is carried verbatim through every edit so that files
// written by other tools round-trip losslessly.
type BoxParams struct {
	Box   geometry.Box
	Extra []float64
}

// ParseParams decodes a BoundingBoxes list into box parameters
func ParseParams(values []float64) (BoxParams, error) {
	if len(values) < boxParamCount {
		return BoxParams{}, fmt.Errorf("bounding box needs at least %d values, got %d", boxParamCount, len(values))
	}
	p := BoxParams{
		Box: geometry.Box{
			Center: geometry.NewVector3(values[0], values[1], values[2]),
			Size:   geometry.NewVector3(values[3], values[4], values[5]),
			Yaw:    values[6],
		},
	}
	if len(values) > boxParamCount {
		p.Extra = append([]float64(nil), values[boxParamCount:]...)
	}
	return p, nil
}

// Params reassembles the on-disk list: the seven box values followed by the
// untouched tail
func (p BoxParams) Params() []float64 {
	values := make([]float64, 0, boxParamCount+len(p.Extra))
	values = append(values,
		p.Box.Center.X, p.Box.Center.Y, p.Box.Center.Z,
		p.Box.Size.X, p.Box.Size.Y, p.Box.Size.Z,
		p.Box.Yaw)
	return append(values, p.Extra...)
}

// ReadRecords loads a label file into memory
func ReadRecords(path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read label file: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode label file %s: %w", path, err)
	}
	return records, nil
}

// WriteRecords writes a label file, replacing any existing content
func WriteRecords(path string, records []Record) error {
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode labels: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write label file: %w", err)
	}
	return nil
}
