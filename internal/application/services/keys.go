package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	config "github.com/avatarctic/step-challenge/configs"
)

// Service key prefixes. Every cache key starts with one of these so invalidation can target a
// whole service or a single operation.
const (
	stepServicePrefix        = "step_service_"
	teamServicePrefix        = "team_service_"
	userServicePrefix        = "user_service_"
	competitionServicePrefix = "competition_service_"
	goalsServicePrefix       = "goals_service_"
	badgeServicePrefix       = "badge_service_"
)

// Operation names as they appear in cache keys.
const (
	opGetUserSteps        = "get-user-steps"
	opGetUserTotalSteps   = "get-user-total-steps"
	opGetStepsOnDate      = "get-steps-on-date"
	opGetTopUsers         = "get-top-users"
	opGetTotalSteps       = "get-total-steps"
	opGetTeams            = "get-teams"
	opGetTeamByID         = "get-team-by-id"
	opGetTeamByUserID     = "get-team-by-user-id"
	opGetTopTeams         = "get-top-teams"
	opGetTeamMembers      = "get-team-members"
	opGetProfile          = "get-profile"
	opGetUsersByIDs       = "get-users-by-ids"
	opGetCompetitions     = "get-competitions"
	opGetCompetitionByID  = "get-competition-by-id"
	opGetUserCompetitions = "get-user-competitions"
	opGetUserGoal         = "get-user-goal"
	opGetGoalProgress     = "get-goal-progress"
	opGetBadges           = "get-badges"
	opGetUserBadges       = "get-user-badges"
)

// cacheKey builds "<prefix><op>-<part>-<part>...".
func cacheKey(prefix, op string, parts ...any) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(op)
	for _, p := range parts {
		b.WriteByte('-')
		fmt.Fprint(&b, p)
	}
	return b.String()
}

// idSet renders ids in a stable order so the same set always maps to the same key.
func idSet(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// TTLs groups cache lifetimes by how volatile the data is.
type TTLs struct {
	// Query covers per-user step and team reads.
	Query time.Duration
	// Leaderboard covers the ranked aggregates.
	Leaderboard time.Duration
	// Aggregate covers sums nested inside other reads.
	Aggregate time.Duration
	// Profile covers per-user data that changes rarely.
	Profile time.Duration
	// Reference covers catalogs such as competitions and badges.
	Reference time.Duration
}

func DefaultTTLs() TTLs {
	return TTLs{
		Query:       5 * time.Minute,
		Leaderboard: 5 * time.Minute,
		Aggregate:   10 * time.Minute,
		Profile:     10 * time.Minute,
		Reference:   60 * time.Minute,
	}
}

// TTLsFromConfig fills unset config values from DefaultTTLs.
func TTLsFromConfig(cfg *config.CacheConfig) TTLs {
	t := DefaultTTLs()
	if cfg == nil {
		return t
	}
	pick := func(v time.Duration, dst *time.Duration) {
		if v > 0 {
			*dst = v
		}
	}
	pick(cfg.QueryTTL, &t.Query)
	pick(cfg.LeaderboardTTL, &t.Leaderboard)
	pick(cfg.AggregateTTL, &t.Aggregate)
	pick(cfg.ProfileTTL, &t.Profile)
	pick(cfg.ReferenceTTL, &t.Reference)
	return t
}
