package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"
)

type ProfileRepoMock struct{ mock.Mock }

func (m *ProfileRepoMock) FindByID(ctx context.Context, id string) (model.Profile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Profile)
	return p, args.Error(1)
}

func (m *ProfileRepoMock) UpdateRole(ctx context.Context, id string, role model.Role) error {
	panic("not used in AccessUsecase tests")
}

const adminID = "8f14e45f-ceea-4e7b-9d5d-12f0117a4f30"

func TestAuthorize_NoSession(t *testing.T) {
	profiles := new(ProfileRepoMock)
	uc := usecase.NewAccessUsecase(profiles)

	//principalが空＝セッションなし
	_, err := uc.Authorize(context.Background(), "")
	assert.ErrorIs(t, err, usecase.ErrUnauthenticated)

	//uuidとして不正なprincipalも未認証扱い
	_, err = uc.Authorize(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, usecase.ErrUnauthenticated)

	profiles.AssertNotCalled(t, "FindByID")
}

func TestAuthorize_ProfileMissing(t *testing.T) {
	profiles := new(ProfileRepoMock)
	profiles.On("FindByID", mock.Anything, adminID).Return(model.Profile{}, repo.ErrNotFound)

	uc := usecase.NewAccessUsecase(profiles)

	//セッションはあるがprofile行がない不整合
	_, err := uc.Authorize(context.Background(), adminID)
	assert.ErrorIs(t, err, usecase.ErrProfileMissing)
}

func TestAuthorize_CustomerDenied(t *testing.T) {
	profiles := new(ProfileRepoMock)
	profiles.On("FindByID", mock.Anything, adminID).
		Return(model.Profile{ID: adminID, Role: model.RoleCustomer}, nil)

	uc := usecase.NewAccessUsecase(profiles)

	_, err := uc.Authorize(context.Background(), adminID)
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)
}

func TestAuthorize_AdminAllowed(t *testing.T) {
	profiles := new(ProfileRepoMock)
	profiles.On("FindByID", mock.Anything, adminID).
		Return(model.Profile{ID: adminID, Role: model.RoleAdmin}, nil)

	uc := usecase.NewAccessUsecase(profiles)

	res, err := uc.Authorize(context.Background(), adminID)
	assert.NoError(t, err)
	assert.Equal(t, adminID, res.PrincipalID)
	assert.Equal(t, model.RoleAdmin, res.Role)
}

func TestAuthorize_RepoError(t *testing.T) {
	boom := errors.New("db down")
	profiles := new(ProfileRepoMock)
	profiles.On("FindByID", mock.Anything, adminID).Return(model.Profile{}, boom)

	uc := usecase.NewAccessUsecase(profiles)

	_, err := uc.Authorize(context.Background(), adminID)
	assert.ErrorIs(t, err, boom)
}
