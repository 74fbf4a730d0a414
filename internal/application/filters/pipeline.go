package filters

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
)

// Pipeline is a flat slice of filters sorted once at construction and
// composed against a single query, materialized exactly once with a
// truncating limit (§9 "Replacing dependency-injected pluggable filters").
type Pipeline struct {
	filters []Filter
}

// NewDefaultPipeline registers the seven filters required by §4.2.
func NewDefaultPipeline() *Pipeline {
	return NewPipeline(
		SelfExclusionFilter{},
		ActiveFilter{},
		GenderFilter{},
		AgeRangeFilter{},
		ExcludeSwipedFilter{},
		ExcludeBlockedFilter{},
		DistanceFilter{},
	)
}

// NewPipeline builds a Pipeline from an arbitrary filter set, sorted
// ascending by Order.
func NewPipeline(fs ...Filter) *Pipeline {
	sorted := make([]Filter, len(fs))
	copy(sorted, fs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order() < sorted[j].Order()
	})
	return &Pipeline{filters: sorted}
}

// Run applies every filter in order to baseQuery, then takes up to limit
// rows, ordered by user_id, in a single materialization. It returns the surviving candidates
// alongside the execution-order trace for observability. Candidates are NOT
// ranked here — that is the scorer's and strategy's job.
func (p *Pipeline) Run(ctx context.Context, baseQuery *gorm.DB, fCtx *Context, limit int) ([]entities.Profile, []Trace, error) {
	query := baseQuery.WithContext(ctx).Session(&gorm.Session{})
	trace := make([]Trace, 0, len(p.filters))

	for _, f := range p.filters {
		query = f.Apply(query, fCtx)
		trace = append(trace, Trace{Name: f.Name(), Kind: f.Kind(), Order: f.Order()})
	}

	var candidates []entities.Profile
	if err := query.Order("user_id").Limit(limit).Find(&candidates).Error; err != nil {
		return nil, trace, err
	}
	return candidates, trace, nil
}
