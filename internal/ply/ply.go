package ply

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/ecopia-map/cesium_loader/internal/data"
	"github.com/ecopia-map/cesium_loader/tools"
)

const vertexSize = 15 // 3 x float32 + 3 x uint8

const zstdExt = ".zst"

type Vertex struct {
	X, Y, Z float32
	R, G, B uint8
}

func header(numVertices int) string {
	var sb strings.Builder
	sb.WriteString("ply\n")
	sb.WriteString("format binary_little_endian 1.0\n")
	sb.WriteString("comment written by cesium_loader\n")
	fmt.Fprintf(&sb, "element vertex %d\n", numVertices)
	for _, axis := range []string{"x", "y", "z"} {
		sb.WriteString("property float " + axis + "\n")
	}
	for _, channel := range []string{"red", "green", "blue"} {
		sb.WriteString("property uchar " + channel + "\n")
	}
	sb.WriteString("end_header\n")
	return sb.String()
}

// WritePlyFile writes the vertices as a binary little endian PLY file. A path
// ending in .zst gets a zstd compressed file.
func WritePlyFile(filePath string, verts []Vertex) (err error) {
	if err := tools.CreateDirectoryIfDoesNotExist(filepath.Dir(filePath)); err != nil {
		return err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	var out io.Writer = file
	if strings.HasSuffix(strings.ToLower(filePath), zstdExt) {
		encoder, err := zstd.NewWriter(file)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := encoder.Close(); err == nil {
				err = cerr
			}
		}()
		out = encoder
	}

	return writePly(out, verts)
}

func writePly(w io.Writer, verts []Vertex) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(header(len(verts))); err != nil {
		return err
	}

	buf := make([]byte, vertexSize)
	for _, v := range verts {
		binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(v.X))
		binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(v.Y))
		binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(v.Z))
		buf[12], buf[13], buf[14] = v.R, v.G, v.B
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Exporter renders an aggregated point collection into a PLY file
type Exporter struct {
	Path string
}

func NewExporter(path string) *Exporter {
	return &Exporter{Path: path}
}

func (e *Exporter) Render(points []data.Point) error {
	verts := make([]Vertex, len(points))
	for i, p := range points {
		verts[i] = Vertex{X: p.X, Y: p.Y, Z: p.Z, R: p.R, G: p.G, B: p.B}
	}
	return WritePlyFile(e.Path, verts)
}
