package auth_test

import (
	"context"
	"errors"
	"testing"

	auth "mvee-store/internal/usecase/auth_usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRevokeUsecase_Execute(t *testing.T) {
	users := new(UserRepoMock)
	users.On("IncrementTokenVersion", mock.Anything, int64(10)).Return(nil)

	uc := auth.NewRevokeUsecase(users)

	require.NoError(t, uc.Execute(context.Background(), 10))
	users.AssertExpectations(t)
}

func TestRevokeUsecase_RejectsInvalidUserID(t *testing.T) {
	uc := auth.NewRevokeUsecase(new(UserRepoMock))

	assert.ErrorIs(t, uc.Execute(context.Background(), 0), auth.ErrInvalidCredentials)
	assert.ErrorIs(t, uc.Execute(context.Background(), -1), auth.ErrInvalidCredentials)
}

func TestRevokeUsecase_PropagatesRepoError(t *testing.T) {
	users := new(UserRepoMock)
	users.On("IncrementTokenVersion", mock.Anything, int64(10)).Return(errors.New("db down"))

	uc := auth.NewRevokeUsecase(users)

	assert.Error(t, uc.Execute(context.Background(), 10))
}
