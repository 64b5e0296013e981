package storefront

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenService mints and validates the access/refresh token pair. The two
// kinds are signed with independent secrets so a leaked refresh secret
// cannot forge access tokens, and vice versa.
type TokenService struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	logger     Logger
}

// NewTokenService creates a new TokenService instance. Both signing keys
// are mandatory: running with a missing or default secret is a
// configuration error, never a fallback.
func NewTokenService(accessKey, refreshKey []byte, accessTTL, refreshTTL time.Duration, issuer string, logger Logger) (*TokenService, error) {
	if len(accessKey) == 0 || len(refreshKey) == 0 {
		return nil, goerrors.New("token signing secrets are required", goerrors.CategoryOperation).
			WithTextCode(TextCodeMissingSecret)
	}

	if logger == nil {
		logger = defLogger{}
	}

	return &TokenService{
		accessKey:  accessKey,
		refreshKey: refreshKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		issuer:     issuer,
		logger:     logger,
	}, nil
}

// AccessTTL returns the configured access token lifetime
func (ts *TokenService) AccessTTL() time.Duration { return ts.accessTTL }

// RefreshTTL returns the configured refresh token lifetime
func (ts *TokenService) RefreshTTL() time.Duration { return ts.refreshTTL }

// IssueAccess mints a short lived access token for the subject
func (ts *TokenService) IssueAccess(subject string, role UserRole) (string, error) {
	return ts.issue(subject, role, TokenKindAccess, ts.accessKey, ts.accessTTL)
}

// IssueRefresh mints a long lived refresh token for the subject
func (ts *TokenService) IssueRefresh(subject string, role UserRole) (string, error) {
	return ts.issue(subject, role, TokenKindRefresh, ts.refreshKey, ts.refreshTTL)
}

// VerifyAccess validates signature, expiry, and kind against the access secret
func (ts *TokenService) VerifyAccess(raw string) (*TokenClaims, error) {
	return ts.verify(raw, TokenKindAccess, ts.accessKey)
}

// VerifyRefresh validates signature, expiry, and kind against the refresh secret
func (ts *TokenService) VerifyRefresh(raw string) (*TokenClaims, error) {
	return ts.verify(raw, TokenKindRefresh, ts.refreshKey)
}

func (ts *TokenService) issue(subject string, role UserRole, kind TokenKind, key []byte, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", goerrors.New("token subject is required", goerrors.CategoryBadInput)
	}

	now := time.Now()
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserRole: string(role),
		Kind:     kind,
	}

	ensureTokenID(&claims.RegisteredClaims)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(key)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

func (ts *TokenService) verify(raw string, kind TokenKind, key []byte) (*TokenClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token verify encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	}, parserOptions...)

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		ts.logger.Error("token verify could not decode claims")
		return nil, ErrTokenMalformed
	}

	// A refresh token presented where an access token is expected (or the
	// reverse) is rejected exactly like any other malformed token.
	if claims.Kind != kind {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
