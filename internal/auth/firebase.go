package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/focitech/focitech-backend/config"
)

// InitializeFirebase initializes the Firebase Admin SDK app shared by the
// identity provider and the storage bucket.
func InitializeFirebase(ctx context.Context, cfg *config.FirebaseConfig) (*firebase.App, error) {
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	fbCfg := &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}

	opt := option.WithCredentialsFile(cfg.CredentialsPath)
	app, err := firebase.NewApp(ctx, fbCfg, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	return app, nil
}

// idTokenVerifier is the part of *fbauth.Client the provider needs.
type idTokenVerifier interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseProvider verifies Firebase ID tokens. The role comes from the
// "role" custom claim.
type FirebaseProvider struct {
	verifier idTokenVerifier
}

func NewFirebaseProvider(client *fbauth.Client) *FirebaseProvider {
	return &FirebaseProvider{verifier: client}
}

func (p *FirebaseProvider) Verify(ctx context.Context, token string) (*Identity, error) {
	decoded, err := p.verifier.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		switch {
		case fbauth.IsIDTokenExpired(err):
			return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
		case fbauth.IsIDTokenRevoked(err), fbauth.IsUserDisabled(err):
			return nil, fmt.Errorf("%w: %v", ErrSessionRevoked, err)
		case fbauth.IsIDTokenInvalid(err):
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return nil, err
	}
	if decoded == nil || decoded.UID == "" {
		return nil, nil
	}

	id := &Identity{
		ID:       decoded.UID,
		Role:     RoleFromClaim(decoded.Claims["role"]),
		Metadata: decoded.Claims,
	}
	if email, ok := decoded.Claims["email"].(string); ok {
		id.Email = email
	}
	return id, nil
}
