package filters

import "gorm.io/gorm"

// GenderFilter is bidirectional (§4.2 order 20): the requester's
// preferredGender must accept the candidate's gender, and the candidate's
// preferredGender must accept the requester's gender. "everyone" (and its
// input synonyms, already normalized at write time) accepts anything.
type GenderFilter struct{}

func (GenderFilter) Name() string { return "Gender" }
func (GenderFilter) Order() int   { return 20 }
func (GenderFilter) Kind() Kind   { return KindDealbreaker }

func (GenderFilter) Apply(query *gorm.DB, ctx *Context) *gorm.DB {
	if !ctx.Requester.PreferredGender.IsEveryone() {
		query = query.Where("gender = ?", string(ctx.Requester.PreferredGender))
	}
	return query.Where("preferred_gender = ? OR preferred_gender = ?", "everyone", string(ctx.Requester.Gender))
}
