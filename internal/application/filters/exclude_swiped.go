package filters

import "gorm.io/gorm"

// ExcludeSwipedFilter drops candidates the requester has already swiped on,
// per the external swipe service's result (§4.2 order 40).
type ExcludeSwipedFilter struct{}

func (ExcludeSwipedFilter) Name() string { return "ExcludeSwiped" }
func (ExcludeSwipedFilter) Order() int   { return 40 }
func (ExcludeSwipedFilter) Kind() Kind   { return KindDealbreaker }

func (ExcludeSwipedFilter) Apply(query *gorm.DB, ctx *Context) *gorm.DB {
	if len(ctx.SwipedIDs) == 0 {
		return query
	}
	ids := make([]int64, 0, len(ctx.SwipedIDs))
	for id := range ctx.SwipedIDs {
		ids = append(ids, id)
	}
	return query.Where("user_id NOT IN ?", ids)
}
