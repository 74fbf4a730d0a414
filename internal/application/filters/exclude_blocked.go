package filters

import "gorm.io/gorm"

// ExcludeBlockedFilter drops candidates on the requester's blocked list,
// per the external safety service's result (§4.2 order 50).
type ExcludeBlockedFilter struct{}

func (ExcludeBlockedFilter) Name() string { return "ExcludeBlocked" }
func (ExcludeBlockedFilter) Order() int   { return 50 }
func (ExcludeBlockedFilter) Kind() Kind   { return KindDealbreaker }

func (ExcludeBlockedFilter) Apply(query *gorm.DB, ctx *Context) *gorm.DB {
	if len(ctx.BlockedIDs) == 0 {
		return query
	}
	ids := make([]int64, 0, len(ctx.BlockedIDs))
	for id := range ctx.BlockedIDs {
		ids = append(ids, id)
	}
	return query.Where("user_id NOT IN ?", ids)
}
