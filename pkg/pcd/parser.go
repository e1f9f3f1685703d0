package pcd

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/golabel/pkg/geometry"
)

// ErrBadHeader marks malformed or unsupported PCD headers
var ErrBadHeader = errors.New("bad PCD header")

// header holds the subset of the PCD v0.7 header this reader needs
type header struct {
	fields []string
	sizes  []int
	types  []string
	counts []int
	points int
	data   string
}

// stride returns the byte width of one point in binary DATA
func (h *header) stride() int {
	n := 0
	for i := range h.fields {
		n += h.sizes[i] * h.counts[i]
	}
	return n
}

// fieldIndex returns the position of a named field, or -1
func (h *header) fieldIndex(name string) int {
	for i, f := range h.fields {
		if f == name {
			return i
		}
	}
	return -1
}

// Parse reads a PCD file and returns its points.
// Both ascii and binary DATA sections are supported.
func Parse(filename string) (*Cloud, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Read parses PCD content from a reader
func Read(r io.Reader) (*Cloud, error) {
	in := bufio.NewReader(r)

	h, err := parseHeader(in)
	if err != nil {
		return nil, err
	}

	switch h.data {
	case "ascii":
		return readASCII(in, h)
	case "binary":
		return readBinary(in, h)
	default:
		return nil, fmt.Errorf("%w: unsupported DATA type %q", ErrBadHeader, h.data)
	}
}

// parseHeader consumes header lines up to and including the DATA line
func parseHeader(in *bufio.Reader) (*header, error) {
	h := &header{points: -1}

	for {
		line, err := in.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: unexpected end of header", ErrBadHeader)
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		key, values := fields[0], fields[1:]

		switch key {
		case "VERSION", "WIDTH", "HEIGHT", "VIEWPOINT":
			// accepted but not needed

		case "FIELDS":
			h.fields = values

		case "SIZE":
			if h.sizes, err = atoiAll(values); err != nil {
				return nil, fmt.Errorf("%w: invalid SIZE: %v", ErrBadHeader, err)
			}

		case "TYPE":
			h.types = values

		case "COUNT":
			if h.counts, err = atoiAll(values); err != nil {
				return nil, fmt.Errorf("%w: invalid COUNT: %v", ErrBadHeader, err)
			}

		case "POINTS":
			if len(values) == 0 {
				return nil, fmt.Errorf("%w: empty POINTS line", ErrBadHeader)
			}
			if h.points, err = strconv.Atoi(values[0]); err != nil {
				return nil, fmt.Errorf("%w: invalid POINTS: %v", ErrBadHeader, err)
			}

		case "DATA":
			if len(values) == 0 {
				return nil, fmt.Errorf("%w: empty DATA line", ErrBadHeader)
			}
			h.data = values[0]
			return h, validateHeader(h)

		default:
			return nil, fmt.Errorf("%w: unknown header line %q", ErrBadHeader, key)
		}
	}
}

func validateHeader(h *header) error {
	if h.points < 0 {
		return fmt.Errorf("%w: missing POINTS", ErrBadHeader)
	}
	if len(h.fields) == 0 {
		return fmt.Errorf("%w: missing FIELDS", ErrBadHeader)
	}
	if len(h.sizes) != len(h.fields) || len(h.types) != len(h.fields) {
		return fmt.Errorf("%w: FIELDS/SIZE/TYPE lengths differ", ErrBadHeader)
	}
	if h.counts == nil {
		// COUNT defaults to 1 per field
		h.counts = make([]int, len(h.fields))
		for i := range h.counts {
			h.counts[i] = 1
		}
	}
	for _, axis := range []string{"x", "y", "z"} {
		i := h.fieldIndex(axis)
		if i < 0 {
			return fmt.Errorf("%w: missing %s field", ErrBadHeader, axis)
		}
		if h.types[i] != "F" || (h.sizes[i] != 4 && h.sizes[i] != 8) {
			return fmt.Errorf("%w: %s must be F4 or F8", ErrBadHeader, axis)
		}
	}
	return nil
}

func atoiAll(values []string) ([]int, error) {
	out := make([]int, len(values))
	for i, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// readASCII parses one whitespace-separated line per point
func readASCII(in *bufio.Reader, h *header) (*Cloud, error) {
	// column of each axis, accounting for multi-count fields
	var cols [3]int
	for i, axis := range []string{"x", "y", "z"} {
		col := 0
		for f := 0; f < h.fieldIndex(axis); f++ {
			col += h.counts[f]
		}
		cols[i] = col
	}

	cloud := &Cloud{Points: make([]geometry.Vector3, 0, h.points)}
	scanner := bufio.NewScanner(in)
	for scanner.Scan() && len(cloud.Points) < h.points {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		var v [3]float64
		for i, col := range cols {
			if col >= len(fields) {
				return nil, fmt.Errorf("point %d: too few columns", len(cloud.Points))
			}
			f, err := strconv.ParseFloat(fields[col], 64)
			if err != nil {
				return nil, fmt.Errorf("point %d: %w", len(cloud.Points), err)
			}
			v[i] = f
		}
		cloud.Points = append(cloud.Points, geometry.NewVector3(v[0], v[1], v[2]))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ascii data: %w", err)
	}
	if len(cloud.Points) < h.points {
		return nil, fmt.Errorf("expected %d points, got %d", h.points, len(cloud.Points))
	}
	return cloud, nil
}

// readBinary parses the packed little-endian point block
func readBinary(in *bufio.Reader, h *header) (*Cloud, error) {
	stride := h.stride()
	buf := make([]byte, stride)

	// byte offset of each axis within a point
	var offsets [3]int
	var sizes [3]int
	for i, axis := range []string{"x", "y", "z"} {
		off := 0
		idx := h.fieldIndex(axis)
		for f := 0; f < idx; f++ {
			off += h.sizes[f] * h.counts[f]
		}
		offsets[i] = off
		sizes[i] = h.sizes[idx]
	}

	cloud := &Cloud{Points: make([]geometry.Vector3, 0, h.points)}
	for i := 0; i < h.points; i++ {
		if _, err := io.ReadFull(in, buf); err != nil {
			return nil, fmt.Errorf("failed to read point %d: %w", i, err)
		}
		var v [3]float64
		for a := 0; a < 3; a++ {
			if sizes[a] == 8 {
				v[a] = math.Float64frombits(binary.LittleEndian.Uint64(buf[offsets[a]:]))
			} else {
				v[a] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[offsets[a]:])))
			}
		}
		cloud.Points = append(cloud.Points, geometry.NewVector3(v[0], v[1], v[2]))
	}
	return cloud, nil
}
