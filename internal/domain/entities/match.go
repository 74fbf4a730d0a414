package entities

import "time"

// Match is a symmetric pair of users known to have mutually accepted.
// User1ID is always the smaller of the two userIds (canonical ordering);
// this is enforced both in NewMatch and by a database check constraint.
type Match struct {
	ID                 int64  `gorm:"primaryKey;autoIncrement"`
	User1ID            int64  `gorm:"not null;uniqueIndex:idx_match_pair,priority:1"`
	User2ID            int64  `gorm:"not null;uniqueIndex:idx_match_pair,priority:2"`
	CompatibilityScore float64
	CreatedAt          time.Time `gorm:"not null"`
	MatchSource        string    `gorm:"size:50"`
	IsActive           bool      `gorm:"not null;default:true"`
	UnmatchedAt        *time.Time
	UnmatchedByUserID  *int64
	UnmatchReason      string `gorm:"size:200"`
}

func (Match) TableName() string { return "matches" }

// NewMatch builds a Match with the pair already canonicalized — whichever
// userId is smaller becomes User1ID, regardless of submission order.
func NewMatch(userA, userB int64, compatibilityScore float64, source string) *Match {
	u1, u2 := userA, userB
	if u1 > u2 {
		u1, u2 = u2, u1
	}
	return &Match{
		User1ID:            u1,
		User2ID:            u2,
		CompatibilityScore: compatibilityScore,
		CreatedAt:          time.Now().UTC(),
		MatchSource:        source,
		IsActive:           true,
	}
}

// InvolvesUser reports whether userId is one of the two matched users.
func (m *Match) InvolvesUser(userID int64) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// OtherUser returns the counterpart userId for the given side of the match.
func (m *Match) OtherUser(userID int64) int64 {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// Unmatch deactivates the match, recording who ended it and why.
func (m *Match) Unmatch(byUserID int64, reason string) {
	now := time.Now().UTC()
	m.IsActive = false
	m.UnmatchedAt = &now
	m.UnmatchedByUserID = &byUserID
	m.UnmatchReason = reason
}

// PrecomputedScore is a directional (userId, targetUserId) compatibility
// snapshot maintained by the scorer (read-through/write-through cache) and
// by the background refresher (write-through only).
type PrecomputedScore struct {
	ID             int64 `gorm:"primaryKey;autoIncrement"`
	UserID         int64 `gorm:"not null;uniqueIndex:idx_score_pair,priority:1"`
	TargetUserID   int64 `gorm:"not null;uniqueIndex:idx_score_pair,priority:2"`
	OverallScore   float64
	LocationScore  float64
	AgeScore       float64
	InterestsScore float64
	EducationScore float64
	LifestyleScore float64
	ActivityScore  float64
	CalculatedAt   time.Time `gorm:"not null"`
	IsValid        bool      `gorm:"not null;default:true"`
}

func (PrecomputedScore) TableName() string { return "precomputed_scores" }

// IsFresh reports whether the row is valid and not older than ttl.
func (s *PrecomputedScore) IsFresh(ttl time.Duration, now time.Time) bool {
	return s.IsValid && now.Sub(s.CalculatedAt) <= ttl
}

// DailyPick is a ranked candidate materialized by the daily-pick generator
// for a single generation cycle.
type DailyPick struct {
	ID             int64 `gorm:"primaryKey;autoIncrement"`
	UserID         int64 `gorm:"not null;index:idx_daily_pick_user_expiry,priority:1"`
	CandidateUserID int64 `gorm:"not null"`
	Score          float64
	Rank           int       `gorm:"not null"`
	GeneratedAt    time.Time `gorm:"not null"`
	ExpiresAt      time.Time `gorm:"not null;index:idx_daily_pick_user_expiry,priority:2;index:idx_daily_pick_expiry"`
	Seen           bool      `gorm:"not null;default:false"`
	Acted          bool      `gorm:"not null;default:false"`
}

func (DailyPick) TableName() string { return "daily_picks" }

// IsExpired reports whether this pick should no longer be served.
func (p *DailyPick) IsExpired(now time.Time) bool {
	return p.ExpiresAt.Before(now)
}

// UserInteraction is an append-only swipe record feeding the desirability
// calculator and health metrics. It is not used to exclude candidates —
// that exclusion set comes from the external swipe service.
type UserInteraction struct {
	ID           int64             `gorm:"primaryKey;autoIncrement"`
	UserID       int64             `gorm:"not null;index:idx_interaction_pair,priority:1"`
	TargetUserID int64             `gorm:"not null;index:idx_interaction_pair,priority:2"`
	Type         InteractionType   `gorm:"type:varchar(10);not null"`
	CreatedAt    time.Time         `gorm:"not null;index:idx_interaction_created_at"`
}

func (UserInteraction) TableName() string { return "user_interactions" }

// InteractionType is the swipe outcome recorded by UserInteraction.
type InteractionType string

const (
	InteractionLike InteractionType = "LIKE"
	InteractionPass InteractionType = "PASS"
)

// IsLike reports whether this interaction was a like.
func (t InteractionType) IsLike() bool { return t == InteractionLike }

// AlgorithmMetric is a periodic per-user summary feeding the desirability
// calculator's batch recalculation.
type AlgorithmMetric struct {
	ID                   int64 `gorm:"primaryKey;autoIncrement"`
	UserID               int64 `gorm:"not null;index"`
	SwipesReceived       int
	LikesReceived        int
	MatchesCreated        int
	SuggestionsGenerated int
	SuccessRate          float64
	CalculatedAt         time.Time `gorm:"not null"`
}

func (AlgorithmMetric) TableName() string { return "algorithm_metrics" }
