package section

import (
	"math"
	"sort"

	"github.com/alexiusacademia/wfbeam/internal/steel"
)

// CalculateProperties computes geometric properties of the section
func (s *Section) CalculateProperties() *Properties {
	props := &Properties{}

	if len(s.Vertices) < 3 {
		return props
	}

	// Find bounding box
	props.MinX, props.MaxX = s.Vertices[0].X, s.Vertices[0].X
	props.MinY, props.MaxY = s.Vertices[0].Y, s.Vertices[0].Y

	for _, v := range s.Vertices {
		props.MinX = math.Min(props.MinX, v.X)
		props.MaxX = math.Max(props.MaxX, v.X)
		props.MinY = math.Min(props.MinY, v.Y)
		props.MaxY = math.Max(props.MaxY, v.Y)
	}

	props.Width = props.MaxX - props.MinX
	props.Height = props.MaxY - props.MinY

	// Calculate area and centroid using the shoelace formula
	props.Area, props.CentroidX, props.CentroidY = s.calculateAreaAndCentroid()
	props.Ix, props.Iy = s.calculateInertia(props.CentroidX, props.CentroidY)
	props.NominalWeight = steel.NominalWeight(props.Area)

	return props
}

// calculateAreaAndCentroid uses the shoelace formula
func (s *Section) calculateAreaAndCentroid() (area, cx, cy float64) {
	n := len(s.Vertices)
	if n < 3 {
		return 0, 0, 0
	}

	var signedArea float64
	var sumX, sumY float64

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := s.Vertices[i].X*s.Vertices[j].Y - s.Vertices[j].X*s.Vertices[i].Y
		signedArea += cross
		sumX += (s.Vertices[i].X + s.Vertices[j].X) * cross
		sumY += (s.Vertices[i].Y + s.Vertices[j].Y) * cross
	}

	signedArea /= 2
	area = math.Abs(signedArea)

	if area > 0 {
		cx = sumX / (6 * signedArea)
		cy = sumY / (6 * signedArea)
	}

	return area, cx, cy
}

// calculateInertia returns the centroidal second moments of area
func (s *Section) calculateInertia(cx, cy float64) (ix, iy float64) {
	n := len(s.Vertices)
	var sx, sy, signedArea float64

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		xi, yi := s.Vertices[i].X-cx, s.Vertices[i].Y-cy
		xj, yj := s.Vertices[j].X-cx, s.Vertices[j].Y-cy
		cross := xi*yj - xj*yi
		signedArea += cross
		sx += (yi*yi + yi*yj + yj*yj) * cross
		sy += (xi*xi + xi*xj + xj*xj) * cross
	}

	// orientation of the vertex ring fixes the sign
	if signedArea < 0 {
		sx, sy = -sx, -sy
	}
	return sx / 12, sy / 12
}

// WidthAtDepth calculates the width of the section at a given depth from top
// Uses horizontal line intersection with the polygon
func (s *Section) WidthAtDepth(depthFromTop float64) float64 {
	props := s.CalculateProperties()
	return s.widthAtY(props.MinY + depthFromTop)
}

// widthAtY calculates the width at a specific Y coordinate
func (s *Section) widthAtY(y float64) float64 {
	intersections := s.findIntersectionsAtY(y)

	if len(intersections) < 2 {
		return 0
	}

	// Sort intersections by X coordinate
	sort.Float64s(intersections)

	// Total width is the sum of all segments
	var totalWidth float64
	for i := 0; i+1 < len(intersections); i += 2 {
		totalWidth += intersections[i+1] - intersections[i]
	}

	return totalWidth
}

// findIntersectionsAtY finds all X coordinates where a horizontal line at Y intersects the polygon
func (s *Section) findIntersectionsAtY(y float64) []float64 {
	var intersections []float64
	n := len(s.Vertices)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		v1, v2 := s.Vertices[i], s.Vertices[j]

		// Check if the edge crosses the Y level
		if (v1.Y <= y && v2.Y > y) || (v2.Y <= y && v1.Y > y) {
			t := (y - v1.Y) / (v2.Y - v1.Y)
			x := v1.X + t*(v2.X-v1.X)
			intersections = append(intersections, x)
		}
	}

	return intersections
}

// RemainingArea returns the gross area less a lost area, never below zero,
// and the loss as a percentage of gross area.
func (s *Section) RemainingArea(lost float64) (remaining, lossPercent float64) {
	area, _, _ := s.calculateAreaAndCentroid()
	if area <= 0 {
		return 0, 0
	}
	lost = math.Min(math.Max(lost, 0), area)
	return area - lost, 100 * lost / area
}
