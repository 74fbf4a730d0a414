package filters

import "gorm.io/gorm"

// SelfExclusionFilter drops the requester from its own candidate list.
type SelfExclusionFilter struct{}

func (SelfExclusionFilter) Name() string { return "SelfExclusion" }
func (SelfExclusionFilter) Order() int   { return 0 }
func (SelfExclusionFilter) Kind() Kind   { return KindDealbreaker }

func (SelfExclusionFilter) Apply(query *gorm.DB, ctx *Context) *gorm.DB {
	return query.Where("user_id <> ?", ctx.Requester.UserID)
}
