// Package geo parses the location strings that appear in uploaded delivery
// datasets into geographic coordinates.
package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidLocation is returned for any location string that cannot be
// parsed into a coordinate pair.
var ErrInvalidLocation = errors.New("invalid location format")

// Point is an ordered (longitude, latitude) pair.
type Point struct {
	Lng float64
	Lat float64
}

// ParseLocation accepts either "lat,lng" or "POINT(lng lat)". The comma form
// is reordered to (lng, lat); the WKT form is kept as written. Any other
// shape, or a component that is not a finite number, fails with
// ErrInvalidLocation. No range validation is applied.
func ParseLocation(raw string) (Point, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Point{}, fmt.Errorf("%w: empty string", ErrInvalidLocation)
	}

	upper := strings.ToUpper(value)
	if strings.HasPrefix(upper, "POINT(") && strings.HasSuffix(value, ")") {
		inner := value[len("POINT(") : len(value)-1]
		parts := strings.Fields(inner)
		if len(parts) != 2 {
			return Point{}, fmt.Errorf("%w: %q", ErrInvalidLocation, raw)
		}
		lng, err1 := parseFinite(parts[0])
		lat, err2 := parseFinite(parts[1])
		if err1 != nil || err2 != nil {
			return Point{}, fmt.Errorf("%w: %q", ErrInvalidLocation, raw)
		}
		return Point{Lng: lng, Lat: lat}, nil
	}

	if strings.Contains(value, ",") {
		parts := strings.SplitN(value, ",", 3)
		if len(parts) != 2 {
			return Point{}, fmt.Errorf("%w: %q", ErrInvalidLocation, raw)
		}
		lat, err1 := parseFinite(strings.TrimSpace(parts[0]))
		lng, err2 := parseFinite(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			return Point{}, fmt.Errorf("%w: %q", ErrInvalidLocation, raw)
		}
		return Point{Lng: lng, Lat: lat}, nil
	}

	return Point{}, fmt.Errorf("%w: %q", ErrInvalidLocation, raw)
}

// WKT renders the point in the POINT(lng lat) form stored alongside orders.
func (p Point) WKT() string {
	return fmt.Sprintf("POINT(%s %s)",
		strconv.FormatFloat(p.Lng, 'f', -1, 64),
		strconv.FormatFloat(p.Lat, 'f', -1, 64))
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}
