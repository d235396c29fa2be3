package geometry

import "math"

// NewRectangle builds the polygon of a rectangle with the given full length
// (local x extent) and width (local y extent), rotated by orientation radians
// and placed at center.
func NewRectangle(center Point, length, width, orientation float64) (*Polygon, error) {
	hl, hw := length/2, width/2
	sin, cos := math.Sincos(orientation)
	corners := [][2]float64{{-hl, -hw}, {hl, -hw}, {hl, hw}, {-hl, hw}}
	vs := make([]Point, 0, 4)
	for _, c := range corners {
		vs = append(vs, Point{
			X: center.X + c[0]*cos - c[1]*sin,
			Y: center.Y + c[0]*sin + c[1]*cos,
		})
	}
	return NewPolygon(vs)
}

// circleSegments is the polygonal resolution used to approximate circles.
// The 16-gon inscribes the circle, so the radius is inflated to make the
// approximation conservative (circumscribed) for collision checks.
const circleSegments = 16

// NewCircle approximates a circle by a circumscribed regular polygon.
func NewCircle(center Point, radius float64) (*Polygon, error) {
	r := radius / math.Cos(math.Pi/circleSegments)
	vs := make([]Point, 0, circleSegments)
	for i := 0; i < circleSegments; i++ {
		a := 2 * math.Pi * float64(i) / circleSegments
		vs = append(vs, Point{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)})
	}
	return NewPolygon(vs)
}
