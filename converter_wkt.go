package trafsim

import (
	"github.com/paulmach/orb/encoding/wkt"
)

// PrepareWKTLinestring returns WKT representation of LineString (elevation is dropped)
func PrepareWKTLinestring(pts []Point) string {
	return wkt.MarshalString(LineToOrb(pts))
}

// PrepareWKTPoint returns WKT representation of Point (elevation is dropped)
func PrepareWKTPoint(pt Point) string {
	return wkt.MarshalString(pt.Orb())
}
