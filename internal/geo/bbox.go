package geo

// BoundingBox is an axis-aligned lon/lat rectangle. MinLon/MinLat always hold
// the minimum corner and MaxLon/MaxLat the maximum corner, whatever order the
// caller supplied the corners in.
type BoundingBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// NewBoundingBox builds a BoundingBox from two opposite corner points.
// Corners are normalized per axis, so ("bottom left", "top right") and any
// other pair of opposite corners describe the same box. The original API
// never validated corner order; normalizing avoids silently returning an
// empty box when the corners are swapped.
func NewBoundingBox(a, b Point) BoundingBox {
	box := BoundingBox{MinLon: a.Lon, MinLat: a.Lat, MaxLon: b.Lon, MaxLat: b.Lat}
	if box.MinLon > box.MaxLon {
		box.MinLon, box.MaxLon = box.MaxLon, box.MinLon
	}
	if box.MinLat > box.MaxLat {
		box.MinLat, box.MaxLat = box.MaxLat, box.MinLat
	}
	return box
}

// BottomLeft returns the minimum corner as a point.
func (b BoundingBox) BottomLeft() Point {
	return Point{Lon: b.MinLon, Lat: b.MinLat}
}

// TopRight returns the maximum corner as a point.
func (b BoundingBox) TopRight() Point {
	return Point{Lon: b.MaxLon, Lat: b.MaxLat}
}

// Contains reports whether the point lies inside the box, borders included.
// Containment is evaluated on the origin coordinate only by callers; that
// choice lives in the query layer, not here.
func (b BoundingBox) Contains(p Point) bool {
	return p.Lon >= b.MinLon && p.Lon <= b.MaxLon &&
		p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}
