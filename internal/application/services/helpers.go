package services

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/application/query"
	"github.com/avatarctic/step-challenge/internal/core/domain/apperr"
	"github.com/avatarctic/step-challenge/internal/core/domain/result"
	"github.com/avatarctic/step-challenge/internal/core/ports"
)

// requireCompetition rejects a missing competition selection.
func requireCompetition(competitionID int64) error {
	if competitionID <= 0 {
		return apperr.NoCompetitionSelected()
	}
	return nil
}

// requireScope checks the competition first, then the user.
func requireScope(competitionID int64, userID string) error {
	if err := requireCompetition(competitionID); err != nil {
		return err
	}
	return requireUser(userID)
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperr.Validation("user id is required")
	}
	return nil
}

func queryFailure[T any](err error) result.Query[T] {
	code := apperr.CodeOf(err)
	if code == "" {
		code = apperr.CodeInternal
	}
	return result.Fail[T](err.Error(), code)
}

func mutationFailure[T any](err error) result.Mutation[T] {
	return result.ToMutation(queryFailure[T](err))
}

// mutate runs a write without caching and clears the prefixes declared for m on success.
func mutate[T any](ctx context.Context, exec *query.Executor, m Mutation, s Scope, write query.Fetch[T]) result.Mutation[T] {
	return result.ToMutation(query.ExecuteQuery(ctx, exec, query.Spec[T, T]{
		Fetch:      write,
		Invalidate: invalidateAfter(exec, m, s),
	}))
}

// infallible wraps a pure mapping as an infallible transform.
func infallible[D, V any](fn func(D) V) func(D) (V, error) {
	return func(d D) (V, error) { return fn(d), nil }
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		return maxLeaderboardLimit
	}
	return limit
}

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// loggerOrDiscard lets tests pass a nil logger.
func loggerOrDiscard(logger *logrus.Logger) *logrus.Logger {
	if logger != nil {
		return logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

const maxImageBytes = 5 << 20

func validateImage(upload *ports.FileUpload) error {
	if upload == nil || upload.Body == nil {
		return apperr.Validation("file is required")
	}
	if upload.Size > maxImageBytes {
		return apperr.Validation("file exceeds %d MB", maxImageBytes>>20)
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return apperr.Validation("file must be an image, got %q", upload.ContentType)
	}
	return nil
}
