package trafsim

import (
	geojson "github.com/paulmach/go.geojson"
)

func lineCoordinates(pts []Point) [][]float64 {
	pts2d := make([][]float64, len(pts))
	for i := range pts {
		pts2d[i] = []float64{pts[i].X, pts[i].Y}
	}
	return pts2d
}

// PrepareGeoJSONLinestring returns GeoJSON representation of LineString
func PrepareGeoJSONLinestring(pts []Point) string {
	b, err := geojson.NewLineStringGeometry(lineCoordinates(pts)).MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

// PrepareGeoJSONPoint returns GeoJSON representation of Point
func PrepareGeoJSONPoint(pt Point) string {
	b, err := geojson.NewPointGeometry([]float64{pt.X, pt.Y}).MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

// RouteFeature returns route as a feature with `length` (meters) and `time` (hours) properties.
// Empty route has no geometry and `found` property set to false.
func RouteFeature(route *Route, meter RouteMeter) *geojson.Feature {
	if route == nil || route.IsEmpty() {
		feature := geojson.NewFeature(nil)
		feature.SetProperty("found", false)
		return feature
	}
	feature := geojson.NewFeature(geojson.NewLineStringGeometry(lineCoordinates(route.Geometry())))
	feature.SetProperty("found", true)
	feature.SetProperty("length", route.Length())
	feature.SetProperty("time", meter.RouteTime(route))
	edgeIDs := make([]EdgeID, len(route.Sections()))
	for i, section := range route.Sections() {
		edgeIDs[i] = section.Edge().ID
	}
	feature.SetProperty("edges", edgeIDs)
	return feature
}

// EdgeFeature returns edge with its attributes and load of the last routing pass
func EdgeFeature(edge *Edge, meter RouteMeter, duration float64) *geojson.Feature {
	feature := geojson.NewFeature(geojson.NewLineStringGeometry(lineCoordinates(edge.geom)))
	feature.ID = int64(edge.ID)
	feature.SetProperty("source", int64(edge.sourceNodeID))
	feature.SetProperty("target", int64(edge.targetNodeID))
	feature.SetProperty("speed", edge.Speed)
	feature.SetProperty("lanes", edge.Lanes)
	feature.SetProperty("delay", edge.Delay)
	feature.SetProperty("length", edge.Length())
	feature.SetProperty("capacity", meter.Capacity(edge))
	feature.SetProperty("vehicles", edge.indicators.VehicleCount)
	feature.SetProperty("saturation", meter.Saturation(edge, duration))
	return feature
}

// EdgesFeatureCollection returns every edge of the graph in registration order
func EdgesFeatureCollection(graph *RoadGraph, meter RouteMeter, duration float64) *geojson.FeatureCollection {
	collection := geojson.NewFeatureCollection()
	for _, edge := range graph.Edges() {
		collection.AddFeature(EdgeFeature(edge, meter, duration))
	}
	return collection
}
