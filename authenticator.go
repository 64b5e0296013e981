package storefront

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TokenPair is the access/refresh pair minted on successful
// authentication
type TokenPair struct {
	Access  string
	Refresh string
}

// RegisterInput carries a validated registration request into the
// authenticator
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Role      UserRole
}

// Authenticator orchestrates credential verification, registration, and
// token issuance
type Authenticator struct {
	provider *UserProvider
	tokens   *TokenService
	repo     RepositoryManager
	logger   Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider *UserProvider, tokens *TokenService, repo RepositoryManager) *Authenticator {
	return &Authenticator{
		provider: provider,
		tokens:   tokens,
		repo:     repo,
		logger:   defLogger{},
	}
}

// WithLogger replaces the authenticator logger
func (a *Authenticator) WithLogger(l Logger) *Authenticator {
	if l != nil {
		a.logger = l
	}
	return a
}

// TokenService exposes the underlying token service
func (a *Authenticator) TokenService() *TokenService {
	return a.tokens
}

// Login verifies the credentials and mints a fresh token pair
func (a *Authenticator) Login(ctx context.Context, email, password string) (*User, TokenPair, error) {
	user, err := a.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		a.logger.Warn("login rejected for %s: %v", email, err)
		loginAttempts.WithLabelValues("failure").Inc()
		return nil, TokenPair{}, err
	}

	pair, err := a.mintPair(user)
	if err != nil {
		loginAttempts.WithLabelValues("failure").Inc()
		return nil, TokenPair{}, err
	}

	loginAttempts.WithLabelValues("success").Inc()
	return user, pair, nil
}

// Register creates the user and mints its first token pair. A duplicate
// email aborts the transaction with ErrEmailInUse and leaves no record
// behind.
func (a *Authenticator) Register(ctx context.Context, input RegisterInput) (*User, TokenPair, error) {
	hash, err := HashPassword(input.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, TokenPair{}, richErr
		}
		return nil, TokenPair{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	role := input.Role
	if role == "" {
		role = RoleBuyer
	}

	user := &User{
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         role,
		IsActive:     true,
	}

	err = a.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := a.repo.Users().GetByEmailTx(ctx, tx, input.Email); err == nil {
			return ErrEmailInUse
		} else if !goerrors.IsNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email uniqueness")
		}

		if user, err = a.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			if isUniqueViolation(err) {
				return ErrEmailInUse
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user")
		}

		return nil
	})

	if err != nil {
		a.logger.Warn("registration failed for %s: %v", input.Email, err)
		return nil, TokenPair{}, err
	}

	registrations.Inc()

	pair, err := a.mintPair(user)
	if err != nil {
		return nil, TokenPair{}, err
	}

	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// subject must still resolve to a live user.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (*User, string, error) {
	claims, err := a.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, "", err
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return nil, "", ErrTokenMalformed
	}

	user, err := a.repo.Users().GetByIDOrNotFound(ctx, id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, "", ErrTokenMalformed
		}
		return nil, "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve refresh subject")
	}

	if !user.IsActive {
		return nil, "", ErrAccountInactive
	}

	access, err := a.tokens.IssueAccess(user.ID.String(), user.Role)
	if err != nil {
		return nil, "", err
	}

	tokenRefreshes.Inc()
	return user, access, nil
}

func (a *Authenticator) mintPair(user *User) (TokenPair, error) {
	access, err := a.tokens.IssueAccess(user.ID.String(), user.Role)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := a.tokens.IssueRefresh(user.ID.String(), user.Role)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}
