package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// userAdmin is the part of *fbauth.Client used for account management.
type userAdmin interface {
	CreateUser(ctx context.Context, user *fbauth.UserToCreate) (*fbauth.UserRecord, error)
	SetCustomUserClaims(ctx context.Context, uid string, claims map[string]interface{}) error
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// passwordVerifier checks email/password pairs. The Admin SDK cannot do this,
// it goes through the Identity Toolkit API with the project's web API key.
type passwordVerifier interface {
	VerifyPassword(ctx context.Context, email, password string) (*identitytoolkit.VerifyPasswordResponse, error)
}

type toolkitVerifier struct {
	svc *identitytoolkit.Service
}

func (v toolkitVerifier) VerifyPassword(ctx context.Context, email, password string) (*identitytoolkit.VerifyPasswordResponse, error) {
	return v.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
}

type FirebaseAccounts struct {
	users     userAdmin
	passwords passwordVerifier
	now       func() time.Time
}

// NewFirebaseAccounts builds the account service. Without apiKey sign-up and
// sign-out work but SignIn returns ErrPasswordSignInDisabled.
func NewFirebaseAccounts(ctx context.Context, client *fbauth.Client, apiKey string) (*FirebaseAccounts, error) {
	a := &FirebaseAccounts{users: client, now: time.Now}
	if apiKey == "" {
		return a, nil
	}

	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create identity toolkit client: %w", err)
	}
	a.passwords = toolkitVerifier{svc: svc}
	return a, nil
}

var _ Accounts = (*FirebaseAccounts)(nil)

func (a *FirebaseAccounts) SignUp(ctx context.Context, in SignUpInput) (*Account, error) {
	params := (&fbauth.UserToCreate{}).Email(in.Email).Password(in.Password)
	if in.FullName != "" {
		params = params.DisplayName(in.FullName)
	}

	rec, err := a.users.CreateUser(ctx, params)
	if err != nil {
		if fbauth.IsEmailAlreadyExists(err) {
			return nil, fmt.Errorf("%w: %v", ErrAccountExists, err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := a.users.SetCustomUserClaims(ctx, rec.UID, map[string]interface{}{"role": string(RoleAuthenticated)}); err != nil {
		return nil, fmt.Errorf("set role claim: %w", err)
	}

	acc := &Account{
		ID:        rec.UID,
		Email:     rec.Email,
		FullName:  rec.DisplayName,
		Role:      RoleAuthenticated,
		IsActive:  !rec.Disabled,
		CreatedAt: a.now().UTC(),
	}
	if rec.UserMetadata != nil && rec.UserMetadata.CreationTimestamp > 0 {
		acc.CreatedAt = time.UnixMilli(rec.UserMetadata.CreationTimestamp).UTC()
	}
	return acc, nil
}

func (a *FirebaseAccounts) SignIn(ctx context.Context, in Credentials) (*Session, error) {
	if a.passwords == nil {
		return nil, ErrPasswordSignInDisabled
	}

	resp, err := a.passwords.VerifyPassword(ctx, in.Email, in.Password)
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusBadRequest {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if resp == nil || resp.IdToken == "" {
		return nil, ErrInvalidCredentials
	}

	return &Session{
		AccessToken:  resp.IdToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    resp.ExpiresIn,
		User: &Account{
			ID:       resp.LocalId,
			Email:    resp.Email,
			FullName: resp.DisplayName,
			Role:     RoleAuthenticated,
			IsActive: true,
		},
	}, nil
}

func (a *FirebaseAccounts) SignOut(ctx context.Context, userID string) error {
	if err := a.users.RevokeRefreshTokens(ctx, userID); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}
