package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var errInvalidCredentials = &DomainError{Code: CodeInvalidCredentials, Message: "Invalid email or password"}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is what login and register hand back to the client.
type AuthResult struct {
	User  entity.User `json:"user"`
	Token string      `json:"token"`
}

type AuthUseCase struct {
	Users  UserRepository
	Hasher PasswordHasher
	Tokens TokenService
	Events EventPublisher
	Log    logrus.FieldLogger
}

func NewAuthUseCase(users UserRepository, hasher PasswordHasher, tokens TokenService, events EventPublisher, log logrus.FieldLogger) *AuthUseCase {
	return &AuthUseCase{
		Users:  users,
		Hasher: hasher,
		Tokens: tokens,
		Events: events,
		Log:    orDiscard(log).WithField("component", "auth"),
	}
}

func (uc *AuthUseCase) Login(ctx context.Context, in LoginInput) (res AuthResult, err error) {
	ctx, span := startSpan(ctx, "auth.login")
	defer func() { endSpan(span, err) }()

	in.Email = strings.TrimSpace(in.Email)
	if errs := ValidateLoginInput(in); len(errs) > 0 {
		return AuthResult{}, newValidationError(errs)
	}

	u, err := uc.Users.FindUserByEmail(ctx, in.Email)
	if errors.Is(err, entity.ErrUserNotFound) {
		uc.Log.WithField("email", in.Email).Info("login rejected: unknown email")
		return AuthResult{}, errInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, translate(err)
	}

	if err := uc.Hasher.Compare(u.PasswordHash, in.Password); err != nil {
		uc.Log.WithField("user_id", u.ID).Info("login rejected: wrong password")
		return AuthResult{}, errInvalidCredentials
	}

	return uc.issue(u)
}

func (uc *AuthUseCase) Register(ctx context.Context, in RegisterInput) (res AuthResult, err error) {
	ctx, span := startSpan(ctx, "auth.register")
	defer func() { endSpan(span, err) }()

	in.Email = strings.TrimSpace(in.Email)
	if errs := ValidateRegisterInput(in); len(errs) > 0 {
		return AuthResult{}, newValidationError(errs)
	}

	hash, err := uc.Hasher.Hash(in.Password)
	if err != nil {
		return AuthResult{}, &TechnicalError{Code: CodeAuth, Message: "could not hash password", Err: err}
	}

	u, err := uc.Users.CreateUser(ctx, entity.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		Role:         entity.RoleUser,
		PasswordHash: hash,
	})
	if err != nil {
		return AuthResult{}, translate(err)
	}

	uc.Log.WithField("user_id", u.ID).Info("user registered")
	publish(ctx, uc.Events, uc.Log, entity.EventUserRegistered, entity.UserRegisteredPayload{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
	})

	return uc.issue(u)
}

// Logout revokes the token so it is rejected until it would have expired anyway.
func (uc *AuthUseCase) Logout(ctx context.Context, token string) (err error) {
	_, span := startSpan(ctx, "auth.logout")
	defer func() { endSpan(span, err) }()

	if err := uc.Tokens.Revoke(token); err != nil {
		return &TechnicalError{Code: CodeAuth, Message: "could not revoke token", Err: err}
	}
	return nil
}

func (uc *AuthUseCase) issue(u entity.User) (AuthResult, error) {
	token, err := uc.Tokens.Issue(u)
	if err != nil {
		return AuthResult{}, &TechnicalError{Code: CodeAuth, Message: "could not issue token", Err: err}
	}
	return AuthResult{User: u, Token: token}, nil
}
