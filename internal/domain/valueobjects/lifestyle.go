package valueobjects

import (
	"fmt"
	"strings"
)

// SmokingStatus and DrinkingStatus are the ordinal lifestyle flags the
// compatibility scorer's lifestyle sub-score penalizes by ordinal distance.
type SmokingStatus string

const (
	SmokingNever     SmokingStatus = "Never"
	SmokingSometimes SmokingStatus = "Sometimes"
	SmokingOften     SmokingStatus = "Often"
)

var smokingOrdinals = map[SmokingStatus]int{
	SmokingNever:     0,
	SmokingSometimes: 1,
	SmokingOften:     2,
}

// Ordinal returns this status's position for mismatch-penalty math; ok is
// false for an empty/unrecognized value (the caller treats that as "absent").
func (s SmokingStatus) Ordinal() (int, bool) {
	v, ok := smokingOrdinals[s]
	return v, ok
}

// NewSmokingStatus parses a raw string, matching case-insensitively.
func NewSmokingStatus(raw string) (SmokingStatus, error) {
	if raw == "" {
		return "", nil
	}
	normalized := strings.Title(strings.ToLower(strings.TrimSpace(raw)))
	s := SmokingStatus(normalized)
	if _, ok := smokingOrdinals[s]; !ok {
		return "", fmt.Errorf("invalid smoking status: %s", raw)
	}
	return s, nil
}

// DrinkingStatus mirrors SmokingStatus for the drinking lifestyle flag.
type DrinkingStatus string

const (
	DrinkingNever     DrinkingStatus = "Never"
	DrinkingSometimes DrinkingStatus = "Sometimes"
	DrinkingOften     DrinkingStatus = "Often"
)

var drinkingOrdinals = map[DrinkingStatus]int{
	DrinkingNever:     0,
	DrinkingSometimes: 1,
	DrinkingOften:     2,
}

// Ordinal returns this status's position for mismatch-penalty math; ok is
// false for an empty/unrecognized value.
func (d DrinkingStatus) Ordinal() (int, bool) {
	v, ok := drinkingOrdinals[d]
	return v, ok
}

// NewDrinkingStatus parses a raw string, matching case-insensitively.
func NewDrinkingStatus(raw string) (DrinkingStatus, error) {
	if raw == "" {
		return "", nil
	}
	normalized := strings.Title(strings.ToLower(strings.TrimSpace(raw)))
	d := DrinkingStatus(normalized)
	if _, ok := drinkingOrdinals[d]; !ok {
		return "", fmt.Errorf("invalid drinking status: %s", raw)
	}
	return d, nil
}

// EducationLevel is the ordinal education scale the compatibility scorer's
// education sub-score measures distance over.
type EducationLevel string

const (
	EducationHighSchool  EducationLevel = "HighSchool"
	EducationSomeCollege EducationLevel = "SomeCollege"
	EducationBachelor    EducationLevel = "Bachelor"
	EducationMaster      EducationLevel = "Master"
	EducationPhD         EducationLevel = "PhD"
	EducationOther       EducationLevel = "Other"
)

// educationOrdinals is the {HighSchool:1, SomeCollege:2, Bachelor:3,
// Master:4, PhD:5, Other:2} map from §4.3.
var educationOrdinals = map[EducationLevel]int{
	EducationHighSchool:  1,
	EducationSomeCollege: 2,
	EducationBachelor:    3,
	EducationMaster:      4,
	EducationPhD:         5,
	EducationOther:       2,
}

// Ordinal returns this level's position on the education scale; ok is false
// for an empty/unrecognized value.
func (e EducationLevel) Ordinal() (int, bool) {
	v, ok := educationOrdinals[e]
	return v, ok
}

// StringSet is an ordered set of strings (profile interests). Stored as JSON
// via GORM's serializer tag; comparisons for Jaccard similarity are
// case-insensitive and happen in the scorer, not here.
type StringSet []string

// Strategy names a scoring strategy the resolver can choose.
type Strategy string

const (
	StrategyLive        Strategy = "live"
	StrategyPreComputed Strategy = "precomputed"
	StrategyDailyPick   Strategy = "dailypick"
	StrategyAuto        Strategy = "auto"
)

// ParseStrategy normalizes a raw strategy override string. An unrecognized
// value is reported via ok=false; callers fall back to Live per §4.5/§7.
func ParseStrategy(raw string) (Strategy, bool) {
	normalized := Strategy(strings.ToLower(strings.TrimSpace(raw)))
	switch normalized {
	case StrategyLive, StrategyPreComputed, StrategyDailyPick, StrategyAuto:
		return normalized, true
	default:
		return "", false
	}
}
