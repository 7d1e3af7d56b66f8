package ports

import (
	"context"

	"github.com/avatarctic/step-challenge/internal/core/domain/competition"
	"github.com/avatarctic/step-challenge/internal/core/domain/result"
)

// CompetitionRepository is the backend surface for competitions and participation.
type CompetitionRepository interface {
	List(ctx context.Context) ([]competition.CompetitionDTO, error)
	// GetByID returns nil, nil when the competition does not exist.
	GetByID(ctx context.Context, id int64) (*competition.CompetitionDTO, error)
	ListByUser(ctx context.Context, userID string) ([]competition.CompetitionDTO, error)
	Create(ctx context.Context, c *competition.CompetitionDTO) (*competition.CompetitionDTO, error)
	Update(ctx context.Context, c *competition.CompetitionDTO) (*competition.CompetitionDTO, error)
	AddParticipant(ctx context.Context, competitionID int64, userID string) error
}

// CompetitionService defines competition reads and writes.
type CompetitionService interface {
	GetCompetitions(ctx context.Context) result.Query[[]competition.Competition]
	GetCompetitionByID(ctx context.Context, id int64) result.Query[competition.Competition]
	GetUserCompetitions(ctx context.Context, userID string) result.Query[[]competition.Competition]
	CreateCompetition(ctx context.Context, creatorID string, req *competition.CreateCompetitionRequest) result.Mutation[competition.Competition]
	UpdateCompetition(ctx context.Context, callerID string, id int64, req *competition.UpdateCompetitionRequest) result.Mutation[competition.Competition]
	JoinCompetition(ctx context.Context, userID string, competitionID int64, inviteKey string) result.Mutation[struct{}]
}
