package filters

import "gorm.io/gorm"

// ActiveFilter requires the candidate to be an active profile.
type ActiveFilter struct{}

func (ActiveFilter) Name() string { return "Active" }
func (ActiveFilter) Order() int   { return 10 }
func (ActiveFilter) Kind() Kind   { return KindDealbreaker }

func (ActiveFilter) Apply(query *gorm.DB, ctx *Context) *gorm.DB {
	return query.Where("is_active = ?", true)
}
