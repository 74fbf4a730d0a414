package filters

import "gorm.io/gorm"

// AgeRangeFilter is bidirectional (§4.2 order 30): the candidate's age must
// fall in the requester's [minAge, maxAge], and the requester's age must
// fall in the candidate's [minAge, maxAge].
type AgeRangeFilter struct{}

func (AgeRangeFilter) Name() string { return "AgeRange" }
func (AgeRangeFilter) Order() int   { return 30 }
func (AgeRangeFilter) Kind() Kind   { return KindDealbreaker }

func (AgeRangeFilter) Apply(query *gorm.DB, ctx *Context) *gorm.DB {
	r := ctx.Requester
	return query.
		Where("age BETWEEN ? AND ?", r.MinAge, r.MaxAge).
		Where("min_age <= ? AND max_age >= ?", r.Age, r.Age)
}
