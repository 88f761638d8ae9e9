package trafsim

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// projector converts WGS84 degrees into planar metres.
// Web Mercator is scaled by the factor at a reference point, so lengths are true near that point.
type projector struct {
	scale float64
}

func newProjector(reference orb.Point) projector {
	scale := project.MercatorScaleFactor(reference)
	if scale <= 0 {
		scale = 1
	}
	return projector{
		scale: scale,
	}
}

func (p projector) toPlanar(pt orb.Point) Point {
	mercator := project.WGS84.ToMercator(pt)
	return Point{
		X: mercator[0] / p.scale,
		Y: mercator[1] / p.scale,
	}
}
