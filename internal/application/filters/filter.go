// Package filters implements the candidate filter pipeline (C2): an
// ordered, store-pushdown set of predicates that narrows the candidate
// universe before any scoring happens. Every Filter extends a *gorm.DB
// query in place; none may enumerate rows before the pipeline's final
// Limit.
package filters

import (
	"gorm.io/gorm"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
)

// Kind classifies a filter's purpose for observability — it does not
// change how Apply behaves.
type Kind string

const (
	KindDealbreaker Kind = "Dealbreaker"
	KindPreference  Kind = "Preference"
	KindRanking     Kind = "Ranking"
)

// Context bundles everything a Filter's Apply may need besides the query
// itself: the requesting profile and the exclusion sets fetched from the
// external swipe/safety services.
type Context struct {
	Requester  *entities.Profile
	SwipedIDs  map[int64]struct{}
	BlockedIDs map[int64]struct{}
}

// Filter is a single store-pushdown predicate.
type Filter interface {
	Name() string
	Order() int
	Kind() Kind
	Apply(query *gorm.DB, ctx *Context) *gorm.DB
}

// Trace is one pipeline entry's execution-order record, returned alongside
// results for observability (§4.2).
type Trace struct {
	Name  string
	Kind  Kind
	Order int
}
