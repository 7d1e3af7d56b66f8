package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/application/query"
	"github.com/avatarctic/step-challenge/internal/core/domain/apperr"
	"github.com/avatarctic/step-challenge/internal/core/domain/result"
	"github.com/avatarctic/step-challenge/internal/core/domain/user"
	"github.com/avatarctic/step-challenge/internal/core/ports"
)

type UserService struct {
	repo    ports.UserRepository
	storage ports.FileStorage
	exec    *query.Executor
	ttl     TTLs
	logger  *logrus.Logger
}

func NewUserService(repo ports.UserRepository, storage ports.FileStorage, exec *query.Executor, ttl TTLs, logger *logrus.Logger) *UserService {
	return &UserService{repo: repo, storage: storage, exec: exec, ttl: ttl, logger: loggerOrDiscard(logger)}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) result.Query[user.Profile] {
	if err := requireUser(userID); err != nil {
		return queryFailure[user.Profile](err)
	}
	return query.ExecuteQuery(ctx, s.exec, query.Spec[*user.ProfileDTO, user.Profile]{
		Fetch: func(ctx context.Context) (*user.ProfileDTO, error) {
			return s.repo.GetProfile(ctx, userID)
		},
		Transform: infallible(func(d *user.ProfileDTO) user.Profile { return user.FromDTO(*d) }),
		CacheKey:  cacheKey(userServicePrefix, opGetProfile, userID),
		TTL:       s.ttl.Profile,
	})
}

// GetUsersByIDs returns the public profiles of ids. Emails are not included.
func (s *UserService) GetUsersByIDs(ctx context.Context, userIDs []string) result.Query[[]user.Profile] {
	if len(userIDs) == 0 {
		return result.OK([]user.Profile{})
	}
	return query.ExecuteQuery(ctx, s.exec, query.Spec[[]user.ProfileDTO, []user.Profile]{
		Fetch: func(ctx context.Context) ([]user.ProfileDTO, error) {
			return s.repo.ListByIDs(ctx, userIDs)
		},
		Transform: infallible(user.FromDTOs),
		CacheKey:  cacheKey(userServicePrefix, opGetUsersByIDs, idSet(userIDs)),
		TTL:       s.ttl.Profile,
	})
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *user.UpdateProfileRequest) result.Mutation[user.Profile] {
	if err := requireUser(userID); err != nil {
		return mutationFailure[user.Profile](err)
	}
	if req == nil {
		return mutationFailure[user.Profile](apperr.Validation("request body is required"))
	}
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return mutationFailure[user.Profile](apperr.Validation("display name must not be empty"))
		}
		req.DisplayName = &name
	}
	return mutate(ctx, s.exec, MutationUpdateProfile, Scope{UserID: userID}, func(ctx context.Context) (user.Profile, error) {
		return s.update(ctx, userID, req)
	})
}

// UploadAvatar stores the image in the avatars bucket and sets it as the profile image.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, upload *ports.FileUpload) result.Mutation[user.Profile] {
	if err := requireUser(userID); err != nil {
		return mutationFailure[user.Profile](err)
	}
	if err := validateImage(upload); err != nil {
		return mutationFailure[user.Profile](err)
	}
	return mutate(ctx, s.exec, MutationUploadAvatar, Scope{UserID: userID}, func(ctx context.Context) (user.Profile, error) {
		objectPath := fmt.Sprintf("%s/%s%s", userID, uuid.NewString(), path.Ext(upload.Filename))
		if err := s.storage.Upload(ctx, ports.BucketAvatars, objectPath, upload.Body); err != nil {
			return user.Profile{}, apperr.Wrap(apperr.CodeStorage, "failed to upload avatar", err)
		}
		url := s.storage.PublicURL(ports.BucketAvatars, objectPath)
		s.logger.WithFields(logrus.Fields{"user_id": userID, "object": objectPath}).Debug("avatar uploaded")
		return s.update(ctx, userID, &user.UpdateProfileRequest{ImageURL: &url})
	})
}

func (s *UserService) update(ctx context.Context, userID string, req *user.UpdateProfileRequest) (user.Profile, error) {
	updated, err := s.repo.UpdateProfile(ctx, userID, req)
	if err != nil {
		return user.Profile{}, err
	}
	if updated == nil {
		return user.Profile{}, apperr.New(apperr.CodeNotFound, "profile not found")
	}
	return user.FromDTO(*updated), nil
}

var _ ports.UserService = (*UserService)(nil)
