package data

// Contains data of a Point Cloud Point as read from a pnts payload, namely
// X,Y,Z coords and R,G,B color components
type Point struct {
	X float32
	Y float32
	Z float32
	R uint8
	G uint8
	B uint8
}

// Builds a new Point from the given coordinates and colors
func NewPoint(X, Y, Z float32, R, G, B uint8) Point {
	return Point{
		X: X,
		Y: Y,
		Z: Z,
		R: R,
		G: G,
		B: B,
	}
}

// The points decoded from exactly one pnts payload. Batches are independent of
// each other and carry no ordering relative to other batches.
type PointBatch struct {
	Source    string    // path of the payload the batch was decoded from
	RTCCenter []float64 // RTC_CENTER from the feature table, never applied to the points
	Points    []Point
}

func NewPointBatch(source string, numPoints int) *PointBatch {
	return &PointBatch{
		Source: source,
		Points: make([]Point, numPoints),
	}
}

func (b *PointBatch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Points)
}
