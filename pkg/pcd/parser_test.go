package pcd

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/golabel/pkg/geometry"
)

var testPoints = []geometry.Vector3{
	{X: 1, Y: 2, Z: 3},
	{X: -1.5, Y: 0, Z: 2.5},
	{X: 0.5, Y: 4, Z: -0.5},
}

func asciiPCD(points []geometry.Vector3) string {
	var sb strings.Builder
	sb.WriteString("# .PCD v0.7 - Point Cloud Data file format\n")
	sb.WriteString("VERSION 0.7\n")
	sb.WriteString("FIELDS x y z\n")
	sb.WriteString("SIZE 4 4 4\n")
	sb.WriteString("TYPE F F F\n")
	sb.WriteString("COUNT 1 1 1\n")
	fmt.Fprintf(&sb, "WIDTH %d\n", len(points))
	sb.WriteString("HEIGHT 1\n")
	sb.WriteString("VIEWPOINT 0 0 0 1 0 0 0\n")
	fmt.Fprintf(&sb, "POINTS %d\n", len(points))
	sb.WriteString("DATA ascii\n")
	for _, p := range points {
		fmt.Fprintf(&sb, "%g %g %g\n", p.X, p.Y, p.Z)
	}
	return sb.String()
}

func binaryPCD(points []geometry.Vector3) []byte {
	var buf bytes.Buffer
	buf.WriteString("VERSION 0.7\n")
	buf.WriteString("FIELDS x y z\n")
	buf.WriteString("SIZE 4 4 4\n")
	buf.WriteString("TYPE F F F\n")
	buf.WriteString("COUNT 1 1 1\n")
	fmt.Fprintf(&buf, "WIDTH %d\nHEIGHT 1\n", len(points))
	buf.WriteString("VIEWPOINT 0 0 0 1 0 0 0\n")
	fmt.Fprintf(&buf, "POINTS %d\n", len(points))
	buf.WriteString("DATA binary\n")
	for _, p := range points {
		for _, v := range []float64{p.X, p.Y, p.Z} {
			binary.Write(&buf, binary.LittleEndian, float32(v))
		}
	}
	return buf.Bytes()
}

func assertPointsEqual(t *testing.T, want, got []geometry.Vector3, tol float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("expected %d points, got %d", len(want), len(got))
	}
	for i := range want {
		if want[i].Distance(got[i]) > tol {
			t.Errorf("point %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestReadASCII(t *testing.T) {
	cloud, err := Read(strings.NewReader(asciiPCD(testPoints)))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	assertPointsEqual(t, testPoints, cloud.Points, 1e-10)
}

func TestReadBinary(t *testing.T) {
	cloud, err := Read(bytes.NewReader(binaryPCD(testPoints)))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	// binary fixture stores float32
	assertPointsEqual(t, testPoints, cloud.Points, 1e-6)
}

func TestReadBinaryExtraFields(t *testing.T) {
	// x y z intensity, intensity ignored
	var buf bytes.Buffer
	buf.WriteString("VERSION 0.7\nFIELDS x y z intensity\nSIZE 4 4 4 4\nTYPE F F F F\nCOUNT 1 1 1 1\n")
	buf.WriteString("WIDTH 1\nHEIGHT 1\nVIEWPOINT 0 0 0 1 0 0 0\nPOINTS 1\nDATA binary\n")
	for _, v := range []float32{7, 8, 9, 0.25} {
		binary.Write(&buf, binary.LittleEndian, v)
	}

	cloud, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	assertPointsEqual(t, []geometry.Vector3{{X: 7, Y: 8, Z: 9}}, cloud.Points, 1e-6)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloud.pcd")
	if err := os.WriteFile(path, []byte(asciiPCD(testPoints)), 0o644); err != nil {
		t.Fatal(err)
	}

	cloud, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cloud.Len() != len(testPoints) {
		t.Errorf("expected %d points, got %d", len(testPoints), cloud.Len())
	}
}

func TestReadBadHeader(t *testing.T) {
	cases := []string{
		"FIELDS x y z\nDATA ascii\n",                                        // missing POINTS
		"FIELDS x y\nSIZE 4 4\nTYPE F F\nPOINTS 0\nDATA ascii\n",            // missing z
		"FIELDS x y z\nSIZE 4 4 4\nTYPE F F F\nPOINTS 0\nDATA compressed\n", // unsupported DATA
	}
	for _, c := range cases {
		if _, err := Read(strings.NewReader(c)); !errors.Is(err, ErrBadHeader) {
			t.Errorf("expected ErrBadHeader for %q, got %v", c, err)
		}
	}
}

func TestReadTruncatedBinary(t *testing.T) {
	raw := binaryPCD(testPoints)
	if _, err := Read(bytes.NewReader(raw[:len(raw)-4])); err == nil {
		t.Error("expected error for truncated binary data")
	}
}

func TestCentroid(t *testing.T) {
	c := &Cloud{Points: []geometry.Vector3{
		{X: 0, Y: 0, Z: 0},
		{X: 2, Y: 4, Z: 6},
	}}
	want := geometry.NewVector3(1, 2, 3)
	if got := c.Centroid(); got.Distance(want) > 1e-10 {
		t.Errorf("expected centroid %v, got %v", want, got)
	}

	empty := &Cloud{}
	if got := empty.Centroid(); got != (geometry.Vector3{}) {
		t.Errorf("empty cloud centroid should be origin, got %v", got)
	}
}

func TestBounds(t *testing.T) {
	c := &Cloud{Points: []geometry.Vector3{
		{X: -1, Y: 5, Z: 0},
		{X: 3, Y: -2, Z: 7},
	}}
	min, max := c.Bounds()
	if min != geometry.NewVector3(-1, -2, 0) || max != geometry.NewVector3(3, 5, 7) {
		t.Errorf("bounds mismatch: min %v max %v", min, max)
	}
	if math.IsNaN(min.X) {
		t.Error("bounds produced NaN")
	}
}
