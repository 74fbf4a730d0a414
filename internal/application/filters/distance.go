package filters

import (
	"math"

	"gorm.io/gorm"
)

// DistanceFilter is a latitude/longitude bounding-box approximation around
// the requester (§4.2 order 60). It deliberately does NOT use the haversine
// formula the compatibility scorer uses for its Location sub-score — a
// bounding box is the only form of this check that stays store-pushdown;
// haversine requires per-row trigonometry the query planner can't push down
// to an index. maxDistanceKm <= 0 makes this filter a no-op.
type DistanceFilter struct{}

func (DistanceFilter) Name() string { return "Distance" }
func (DistanceFilter) Order() int   { return 60 }
func (DistanceFilter) Kind() Kind   { return KindDealbreaker }

const earthRadiusKmPerDegree = 111.0

func (DistanceFilter) Apply(query *gorm.DB, ctx *Context) *gorm.DB {
	r := ctx.Requester
	if r.MaxDistanceKm <= 0 {
		return query
	}

	latDelta := r.MaxDistanceKm / earthRadiusKmPerDegree
	lonDelta := r.MaxDistanceKm / (earthRadiusKmPerDegree * math.Cos(r.Latitude*math.Pi/180))

	return query.Where(
		"lat BETWEEN ? AND ? AND lon BETWEEN ? AND ?",
		r.Latitude-latDelta, r.Latitude+latDelta,
		r.Longitude-lonDelta, r.Longitude+lonDelta,
	)
}
