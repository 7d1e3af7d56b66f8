package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/avatarctic/step-challenge/internal/application/query"
)

// Mutation names a write operation that has an invalidation rule.
type Mutation string

const (
	MutationAddSteps          Mutation = "step.add-steps"
	MutationDeleteSteps       Mutation = "step.delete-steps"
	MutationCreateTeam        Mutation = "team.create-team"
	MutationUpdateTeam        Mutation = "team.update-team"
	MutationDeleteTeam        Mutation = "team.delete-team"
	MutationUploadTeamImage   Mutation = "team.upload-image"
	MutationJoinTeam          Mutation = "team.join-team"
	MutationLeaveTeam         Mutation = "team.leave-team"
	MutationUpdateProfile     Mutation = "user.update-profile"
	MutationUploadAvatar      Mutation = "user.upload-avatar"
	MutationCreateCompetition Mutation = "competition.create"
	MutationUpdateCompetition Mutation = "competition.update"
	MutationJoinCompetition   Mutation = "competition.join"
	MutationSetUserGoal       Mutation = "goals.set-user-goal"
	MutationAwardBadge        Mutation = "badge.award"
)

// Scope carries the identifiers an invalidation rule may need.
type Scope struct {
	UserID string
	TeamID int64
}

type invalidationRule func(s Scope) []string

func stepsChanged(s Scope) []string {
	return []string{
		stepServicePrefix + opGetUserSteps + "-" + s.UserID,
		stepServicePrefix + opGetUserTotalSteps + "-" + s.UserID,
		stepServicePrefix + opGetStepsOnDate + "-" + s.UserID,
		stepServicePrefix + opGetTopUsers + "-",
		stepServicePrefix + opGetTotalSteps + "-",
		teamServicePrefix + opGetTopTeams + "-",
		teamServicePrefix + opGetTeamByID + "-",
		goalsServicePrefix + opGetGoalProgress + "-" + s.UserID,
	}
}

func teamChanged(s Scope) []string {
	return []string{
		fmt.Sprintf("%s%s-%d", teamServicePrefix, opGetTeamByID, s.TeamID),
		teamServicePrefix + opGetTeamByUserID,
		teamServicePrefix + opGetTeams,
		teamServicePrefix + opGetTopTeams + "-",
		fmt.Sprintf("%s%s-%d", teamServicePrefix, opGetTeamMembers, s.TeamID),
	}
}

func profileChanged(s Scope) []string {
	return []string{
		userServicePrefix + opGetProfile + "-" + s.UserID,
		userServicePrefix + opGetUsersByIDs + "-",
		stepServicePrefix + opGetTopUsers + "-",
		teamServicePrefix + opGetTopTeams + "-",
	}
}

func competitionsChanged(Scope) []string {
	return []string{competitionServicePrefix}
}

// invalidationRules maps every mutation to the key prefixes that may hold data it made stale.
var invalidationRules = map[Mutation]invalidationRule{
	MutationAddSteps:    stepsChanged,
	MutationDeleteSteps: stepsChanged,
	MutationCreateTeam: func(Scope) []string {
		return []string{
			teamServicePrefix + opGetTeams,
			teamServicePrefix + opGetTopTeams + "-",
			teamServicePrefix + opGetTeamByUserID,
		}
	},
	MutationUpdateTeam:        teamChanged,
	MutationDeleteTeam:        teamChanged,
	MutationUploadTeamImage:   teamChanged,
	MutationJoinTeam:          teamChanged,
	MutationLeaveTeam:         teamChanged,
	MutationUpdateProfile:     profileChanged,
	MutationUploadAvatar:      profileChanged,
	MutationCreateCompetition: competitionsChanged,
	MutationUpdateCompetition: competitionsChanged,
	MutationJoinCompetition: func(s Scope) []string {
		return []string{
			competitionServicePrefix + opGetUserCompetitions + "-" + s.UserID,
			stepServicePrefix + opGetTopUsers + "-",
		}
	},
	MutationSetUserGoal: func(s Scope) []string {
		return []string{
			goalsServicePrefix + opGetUserGoal + "-" + s.UserID,
			goalsServicePrefix + opGetGoalProgress + "-" + s.UserID,
		}
	},
	MutationAwardBadge: func(s Scope) []string {
		return []string{badgeServicePrefix + opGetUserBadges + "-" + s.UserID}
	},
}

// InvalidationPrefixes returns the prefixes a successful mutation must clear.
// It panics for a mutation without a rule; every write path is covered by a test.
func InvalidationPrefixes(m Mutation, s Scope) []string {
	rule, ok := invalidationRules[m]
	if !ok {
		panic(fmt.Sprintf("no invalidation rule for mutation %q", m))
	}
	return rule(s)
}

// Mutations lists every mutation with a rule, sorted by name.
func Mutations() []Mutation {
	out := make([]Mutation, 0, len(invalidationRules))
	for m := range invalidationRules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// invalidateAfter returns the post-success callback for m.
func invalidateAfter(exec *query.Executor, m Mutation, s Scope) func(ctx context.Context) {
	prefixes := InvalidationPrefixes(m, s)
	return func(ctx context.Context) {
		exec.Invalidate(ctx, prefixes...)
	}
}
