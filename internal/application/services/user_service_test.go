package services_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/step-challenge/internal/application/services"
	"github.com/avatarctic/step-challenge/internal/core/domain/apperr"
	"github.com/avatarctic/step-challenge/internal/core/domain/user"
	"github.com/avatarctic/step-challenge/internal/core/ports"
	"github.com/avatarctic/step-challenge/internal/mocks"
)

func TestGetUsersByIDs_SharedKeyForSameSet(t *testing.T) {
	f := newFixture()
	calls := 0
	repo := &mocks.UserRepositoryMock{ListByIDsFn: func(ctx context.Context, userIDs []string) ([]user.ProfileDTO, error) {
		calls++
		return []user.ProfileDTO{{ID: "u1"}, {ID: "u2"}}, nil
	}}
	svc := services.NewUserService(repo, &mocks.FileStorageMock{}, f.exec, services.DefaultTTLs(), nil)
	ctx := context.Background()

	require.True(t, svc.GetUsersByIDs(ctx, []string{"u2", "u1"}).Success)
	require.True(t, svc.GetUsersByIDs(ctx, []string{"u1", "u2"}).Success)
	assert.Equal(t, 1, calls)

	empty := svc.GetUsersByIDs(ctx, nil)
	assert.True(t, empty.Success)
	assert.Empty(t, empty.Data)
	assert.Equal(t, 1, calls)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture()
	svc := services.NewUserService(&mocks.UserRepositoryMock{}, &mocks.FileStorageMock{}, f.exec, services.DefaultTTLs(), nil)
	ctx := context.Background()

	blank := " "
	bad := svc.UpdateProfile(ctx, "u1", &user.UpdateProfileRequest{DisplayName: &blank})
	assert.Equal(t, apperr.CodeValidationFailed, bad.Code)
	assert.Empty(t, f.cache.Invalidated())

	name := " Ann "
	res := svc.UpdateProfile(ctx, "u1", &user.UpdateProfileRequest{DisplayName: &name})
	require.True(t, res.Success)
	assert.Equal(t, "Ann", res.Data.DisplayName)
	assert.ElementsMatch(t, services.InvalidationPrefixes(services.MutationUpdateProfile, services.Scope{UserID: "u1"}), f.cache.Invalidated())
}

func TestUploadAvatar_StorageFailure(t *testing.T) {
	f := newFixture()
	storage := &mocks.FileStorageMock{UploadFn: func(ctx context.Context, bucket, path string, body io.Reader) error {
		return errors.New("disk full")
	}}
	svc := services.NewUserService(&mocks.UserRepositoryMock{}, storage, f.exec, services.DefaultTTLs(), nil)

	res := svc.UploadAvatar(context.Background(), "u1", &ports.FileUpload{Filename: "me.jpg", ContentType: "image/jpeg", Body: strings.NewReader("jpeg")})
	assert.False(t, res.Success)
	assert.Equal(t, apperr.CodeStorage, res.Code)
	assert.Empty(t, f.cache.Invalidated())
}

func TestUploadAvatar(t *testing.T) {
	f := newFixture()
	storage := &mocks.FileStorageMock{}
	svc := services.NewUserService(&mocks.UserRepositoryMock{}, storage, f.exec, services.DefaultTTLs(), nil)

	res := svc.UploadAvatar(context.Background(), "u1", &ports.FileUpload{Filename: "me.jpg", ContentType: "image/jpeg", Body: strings.NewReader("jpeg")})
	require.True(t, res.Success, res.Error)
	assert.True(t, strings.HasPrefix(res.Data.ImageURL, "http://storage.test/avatars/u1/"))
	assert.Contains(t, f.cache.Invalidated(), "user_service_get-profile-u1")
}
