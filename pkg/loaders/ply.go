package loaders

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
)

// ErrUnsupportedPLY is returned for PLY files this loader cannot read
var ErrUnsupportedPLY = errors.New("loaders: unsupported PLY file")

// plyHeader represents the parsed header information from a PLY file
type plyHeader struct {
	Format      string // "binary_little_endian" or "ascii"
	VertexCount int
	FaceCount   int
	VertexProps []plyProperty
	FaceProps   []plyProperty

	// Indices of x, y, z and nx, ny, nz among the vertex properties, -1 if absent
	PositionIndices [3]int
	NormalIndices   [3]int
}

func (h *plyHeader) hasNormals() bool {
	return h.NormalIndices[0] >= 0 && h.NormalIndices[1] >= 0 && h.NormalIndices[2] >= 0
}

// plyProperty represents a property definition in the PLY header
type plyProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
}

// LoadPLYFile opens filename and loads it with LoadPLY
func LoadPLYFile(filename string) (geometry.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return geometry.Mesh{}, errors.Wrap(err, "failed to open PLY file")
	}
	defer file.Close()

	mesh, err := LoadPLY(file)
	if err != nil {
		return geometry.Mesh{}, errors.Wrapf(err, "loading %s", filename)
	}
	return mesh, nil
}

// LoadPLY reads an ASCII or binary little-endian PLY stream into a mesh.
// Polygonal faces are fan-triangulated. Missing normals are computed from
// the faces.
func LoadPLY(r io.Reader) (geometry.Mesh, error) {
	reader := bufio.NewReader(r)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return geometry.Mesh{}, errors.Wrap(err, "failed to parse PLY header")
	}

	var src plyValueReader
	switch header.Format {
	case "binary_little_endian":
		src = &plyBinaryReader{r: reader}
	case "ascii":
		s := bufio.NewScanner(reader)
		s.Split(bufio.ScanWords)
		src = &plyASCIIReader{s: s}
	default:
		return geometry.Mesh{}, errors.Wrapf(ErrUnsupportedPLY, "format %q", header.Format)
	}
	mesh, err := readPLYBody(src, header)
	if err != nil {
		return geometry.Mesh{}, errors.Wrap(err, "failed to read PLY data")
	}
	if !header.hasNormals() {
		mesh.ComputeNormals()
	}
	if err := mesh.Validate(); err != nil {
		return geometry.Mesh{}, err
	}

	logger.Debugf("loaded PLY mesh: %d vertices, %d triangles", len(mesh.Vertices), mesh.TriangleCount())
	return mesh, nil
}

// parsePLYHeader reads header lines up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*plyHeader, error) {
	header := &plyHeader{
		PositionIndices: [3]int{-1, -1, -1},
		NormalIndices:   [3]int{-1, -1, -1},
	}

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, errors.Wrap(ErrUnsupportedPLY, "missing ply magic")
	}

	var currentElement string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, errors.Wrap(err, "error reading header")
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			if header.PositionIndices[0] < 0 || header.PositionIndices[1] < 0 || header.PositionIndices[2] < 0 {
				return nil, errors.Wrap(ErrUnsupportedPLY, "vertex positions missing")
			}
			return header, nil
		case "format":
			if len(parts) >= 2 {
				header.Format = parts[1]
			}
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, errors.Errorf("invalid element line: %q", strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil {
				return nil, errors.Errorf("invalid element count: %s", parts[2])
			}
			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			default:
				if count > 0 {
					return nil, errors.Wrapf(ErrUnsupportedPLY, "element %q", currentElement)
				}
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, errors.Wrap(err, "failed to parse property")
			}
			switch currentElement {
			case "vertex":
				header.VertexProps = append(header.VertexProps, prop)
				idx := len(header.VertexProps) - 1
				switch prop.Name {
				case "x":
					header.PositionIndices[0] = idx
				case "y":
					header.PositionIndices[1] = idx
				case "z":
					header.PositionIndices[2] = idx
				case "nx":
					header.NormalIndices[0] = idx
				case "ny":
					header.NormalIndices[1] = idx
				case "nz":
					header.NormalIndices[2] = idx
				}
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		}
	}
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (plyProperty, error) {
	if len(parts) < 2 {
		return plyProperty{}, errors.New("invalid property definition")
	}
	if parts[0] == "list" {
		if len(parts) < 4 {
			return plyProperty{}, errors.New("invalid list property definition")
		}
		return plyProperty{IsList: true, ListType: parts[1], Type: parts[2], Name: parts[3]}, nil
	}
	return plyProperty{Type: parts[0], Name: parts[1]}, nil
}

func readPLYBody(src plyValueReader, header *plyHeader) (geometry.Mesh, error) {
	mesh := geometry.Mesh{
		Vertices: make([]geometry.Vertex, header.VertexCount),
		Indices:  make([]uint32, 0, header.FaceCount*3),
	}

	values := make([]float64, len(header.VertexProps))
	for i := 0; i < header.VertexCount; i++ {
		for j, prop := range header.VertexProps {
			if prop.IsList {
				return mesh, errors.Wrap(ErrUnsupportedPLY, "list vertex property")
			}
			v, err := src.read(prop.Type)
			if err != nil {
				return mesh, errors.Wrapf(err, "vertex %d property %s", i, prop.Name)
			}
			values[j] = v
		}
		p := header.PositionIndices
		mesh.Vertices[i].Position = core.NewVec3(values[p[0]], values[p[1]], values[p[2]])
		if header.hasNormals() {
			n := header.NormalIndices
			mesh.Vertices[i].Normal = core.NewVec3(values[n[0]], values[n[1]], values[n[2]]).Normalize()
		}
	}

	for i := 0; i < header.FaceCount; i++ {
		for _, prop := range header.FaceProps {
			if !prop.IsList {
				if _, err := src.read(prop.Type); err != nil {
					return mesh, errors.Wrapf(err, "face %d property %s", i, prop.Name)
				}
				continue
			}

			count, err := src.read(prop.ListType)
			if err != nil {
				return mesh, errors.Wrapf(err, "face %d vertex count", i)
			}
			indices := make([]uint32, int(count))
			for k := range indices {
				v, err := src.read(prop.Type)
				if err != nil {
					return mesh, errors.Wrapf(err, "face %d index %d", i, k)
				}
				indices[k] = uint32(v)
			}

			// Only vertex_indices contributes geometry
			if prop.Name != "vertex_indices" && prop.Name != "vertex_index" {
				continue
			}
			if len(indices) < 3 {
				return mesh, errors.Errorf("face %d has %d vertices", i, len(indices))
			}
			for k := 1; k+1 < len(indices); k++ {
				mesh.Indices = append(mesh.Indices, indices[0], indices[k], indices[k+1])
			}
		}
	}
	return mesh, nil
}

// plyValueReader reads one scalar of the given PLY type
type plyValueReader interface {
	read(dataType string) (float64, error)
}

type plyASCIIReader struct {
	s *bufio.Scanner
}

func (a *plyASCIIReader) read(string) (float64, error) {
	if !a.s.Scan() {
		if err := a.s.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	return strconv.ParseFloat(a.s.Text(), 64)
}

type plyBinaryReader struct {
	r   io.Reader
	buf [8]byte
}

func (b *plyBinaryReader) read(dataType string) (float64, error) {
	size := plyTypeSize(dataType)
	if size == 0 {
		return 0, errors.Wrapf(ErrUnsupportedPLY, "property type %q", dataType)
	}
	data := b.buf[:size]
	if _, err := io.ReadFull(b.r, data); err != nil {
		return 0, err
	}

	le := binary.LittleEndian
	switch dataType {
	case "char", "int8":
		return float64(int8(data[0])), nil
	case "uchar", "uint8":
		return float64(data[0]), nil
	case "short", "int16":
		return float64(int16(le.Uint16(data))), nil
	case "ushort", "uint16":
		return float64(le.Uint16(data)), nil
	case "int", "int32":
		return float64(int32(le.Uint32(data))), nil
	case "uint", "uint32":
		return float64(le.Uint32(data)), nil
	case "float", "float32":
		return float64(math.Float32frombits(le.Uint32(data))), nil
	default:
		return math.Float64frombits(le.Uint64(data)), nil
	}
}

// plyTypeSize returns the size in bytes of a PLY scalar type
func plyTypeSize(dataType string) int {
	switch dataType {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}
