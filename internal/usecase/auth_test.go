package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type authFixture struct {
	users  *MockUserRepository
	hasher *MockPasswordHasher
	tokens *MockTokenService
	events *MockEventPublisher
	uc     *AuthUseCase
}

func newAuthFixture() authFixture {
	f := authFixture{
		users:  new(MockUserRepository),
		hasher: new(MockPasswordHasher),
		tokens: new(MockTokenService),
		events: new(MockEventPublisher),
	}
	f.uc = NewAuthUseCase(f.users, f.hasher, f.tokens, f.events, nil)
	return f
}

func TestLoginSuccess(t *testing.T) {
	f := newAuthFixture()
	john := entity.User{ID: "1", Name: "John Doe", Email: "john@example.com", Role: entity.RoleAdmin, PasswordHash: "h"}

	f.users.On("FindUserByEmail", mock.Anything, "john@example.com").Return(john, nil)
	f.hasher.On("Compare", "h", "password123").Return(nil)
	f.tokens.On("Issue", john).Return("jwt", nil)

	res, err := f.uc.Login(context.Background(), LoginInput{Email: " john@example.com ", Password: "password123"})

	require.NoError(t, err)
	assert.Equal(t, "jwt", res.Token)
	assert.Equal(t, john, res.User)
}

func TestLoginRejectsUnknownEmailAndWrongPassword(t *testing.T) {
	f := newAuthFixture()
	f.users.On("FindUserByEmail", mock.Anything, "ghost@example.com").Return(entity.User{}, entity.ErrUserNotFound)
	f.users.On("FindUserByEmail", mock.Anything, "jane@example.com").Return(entity.User{ID: "2", PasswordHash: "h"}, nil)
	f.hasher.On("Compare", "h", "wrongpass").Return(errors.New("mismatch"))

	_, err := f.uc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "password123"})
	assert.Equal(t, CodeInvalidCredentials, ErrorCode(err))
	assert.Equal(t, "Invalid email or password", err.Error())

	_, err = f.uc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "wrongpass"})
	assert.Equal(t, CodeInvalidCredentials, ErrorCode(err))

	f.tokens.AssertNotCalled(t, "Issue", mock.Anything)
}

func TestLoginValidatesInput(t *testing.T) {
	f := newAuthFixture()

	_, err := f.uc.Login(context.Background(), LoginInput{Email: "  ", Password: ""})

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeValidation, de.Code)
	assert.Len(t, de.Fields, 2)
	f.users.AssertNotCalled(t, "FindUserByEmail", mock.Anything, mock.Anything)
}

func TestLoginShortPasswordIsInvalidCredentials(t *testing.T) {
	f := newAuthFixture()
	f.users.On("FindUserByEmail", mock.Anything, "john").Return(entity.User{}, entity.ErrUserNotFound)
	f.users.On("FindUserByEmail", mock.Anything, "john@example.com").Return(entity.User{ID: "1", PasswordHash: "h"}, nil)
	f.hasher.On("Compare", "h", "123").Return(errors.New("mismatch"))

	_, err := f.uc.Login(context.Background(), LoginInput{Email: "john@example.com", Password: "123"})
	assert.Equal(t, CodeInvalidCredentials, ErrorCode(err))
	assert.Equal(t, "Invalid email or password", err.Error())

	_, err = f.uc.Login(context.Background(), LoginInput{Email: "john", Password: "123"})
	assert.Equal(t, CodeInvalidCredentials, ErrorCode(err))
}

func TestRegisterSuccess(t *testing.T) {
	f := newAuthFixture()
	in := RegisterInput{Name: "Sam Lee", Email: "sam@example.com", Password: "secret1"}
	created := entity.User{ID: "3", Name: "Sam Lee", Email: "sam@example.com", Role: entity.RoleUser, PasswordHash: "hashed"}

	f.hasher.On("Hash", "secret1").Return("hashed", nil)
	f.users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u entity.User) bool {
		return u.Role == entity.RoleUser && u.PasswordHash == "hashed" && u.Email == "sam@example.com"
	})).Return(created, nil)
	f.tokens.On("Issue", created).Return("jwt", nil)
	f.events.On("Publish", mock.Anything, eventOfType(entity.EventUserRegistered)).Return(nil)

	res, err := f.uc.Register(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "3", res.User.ID)
	assert.Equal(t, "jwt", res.Token)
	f.events.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.hasher.On("Hash", "secret1").Return("hashed", nil)
	f.users.On("CreateUser", mock.Anything, mock.Anything).Return(entity.User{}, entity.ErrEmailAlreadyExists)

	_, err := f.uc.Register(context.Background(), RegisterInput{Name: "John", Email: "john@example.com", Password: "secret1"})

	assert.Equal(t, CodeDuplicateEmail, ErrorCode(err))
	assert.Equal(t, "User with this email already exists", err.Error())
	f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newAuthFixture()
	f.tokens.On("Revoke", "jwt").Return(nil)

	require.NoError(t, f.uc.Logout(context.Background(), "jwt"))
	f.tokens.AssertExpectations(t)

	f2 := newAuthFixture()
	f2.tokens.On("Revoke", "garbage").Return(errors.New("malformed"))
	assert.True(t, IsTechnicalError(f2.uc.Logout(context.Background(), "garbage")))
}
