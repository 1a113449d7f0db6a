package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusnest/accommodation-service/internal/auth"
	"github.com/campusnest/accommodation-service/internal/domain"
	"github.com/campusnest/accommodation-service/internal/platform/logger"
)

func newUserUsecaseForTest(repo *MockUserRepository) *UserUsecase {
	tokens := auth.NewTokenManager("test-secret", "test", time.Hour)
	return NewUserUsecase(repo, tokens, logger.Nop())
}

func TestRegister_HashesPassword(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUserUsecaseForTest(repo)

	repo.On("FindByUsername", mock.Anything, "alice").Return(nil, domain.ErrNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Username == "alice" &&
			u.PasswordHash != "s3cret" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")) == nil
	})).Return(&domain.User{ID: 1, Username: "alice", Role: domain.RoleBroker}, nil)

	user, err := uc.Register(context.Background(), "alice", "s3cret", domain.RoleBroker)

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	repo.AssertExpectations(t)
}

func TestRegister_EmptyRoleDefaultsToUser(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUserUsecaseForTest(repo)

	repo.On("FindByUsername", mock.Anything, "bob").Return(nil, domain.ErrNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleUser
	})).Return(&domain.User{ID: 2, Username: "bob", Role: domain.RoleUser}, nil)

	user, err := uc.Register(context.Background(), "bob", "pw", "")

	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
}

func TestRegister_RejectsUnknownRole(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUserUsecaseForTest(repo)

	_, err := uc.Register(context.Background(), "eve", "pw", "ADMIN")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_RejectsBlankCredentials(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUserUsecaseForTest(repo)

	_, err := uc.Register(context.Background(), "  ", "pw", domain.RoleUser)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Register(context.Background(), "carol", "", domain.RoleUser)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_RejectsDuplicateUsername(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUserUsecaseForTest(repo)

	repo.On("FindByUsername", mock.Anything, "alice").Return(&domain.User{ID: 1, Username: "alice"}, nil)

	_, err := uc.Register(context.Background(), "alice", "pw", domain.RoleUser)

	require.ErrorIs(t, err, domain.ErrDuplicateUsername)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUserUsecaseForTest(repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.User{ID: 1, Username: "alice", PasswordHash: string(hash), Role: domain.RoleBroker}
	repo.On("FindByUsername", mock.Anything, "alice").Return(stored, nil)

	token, user, err := uc.Login(context.Background(), "alice", "s3cret")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Username)

	claims, err := auth.NewTokenManager("test-secret", "test", time.Hour).Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, string(domain.RoleBroker), claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUserUsecaseForTest(repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.On("FindByUsername", mock.Anything, "alice").Return(&domain.User{ID: 1, Username: "alice", PasswordHash: string(hash)}, nil)

	_, _, err = uc.Login(context.Background(), "alice", "wrong")

	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UnknownUserIndistinguishableFromWrongPassword(t *testing.T) {
	repo := new(MockUserRepository)
	uc := newUserUsecaseForTest(repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.On("FindByUsername", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)
	repo.On("FindByUsername", mock.Anything, "alice").Return(&domain.User{ID: 1, Username: "alice", PasswordHash: string(hash)}, nil)

	_, _, errUnknown := uc.Login(context.Background(), "ghost", "whatever")
	_, _, errWrong := uc.Login(context.Background(), "alice", "wrong")

	require.ErrorIs(t, errUnknown, domain.ErrUnauthorized)
	require.ErrorIs(t, errWrong, domain.ErrUnauthorized)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}
