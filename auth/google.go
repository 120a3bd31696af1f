package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go"
	firebaseauth "firebase.google.com/go/auth"
	"google.golang.org/api/option"
)

// TokenVerifier turns a Google ID token into a verified email address.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (string, error)
}

type firebaseVerifier struct {
	client    *firebaseauth.Client
	projectID string
}

// NewFirebaseVerifier builds a verifier from a service account JSON blob.
func NewFirebaseVerifier(ctx context.Context, credentialsJSON, projectID string) (TokenVerifier, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentialsJSON([]byte(credentialsJSON)))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return &firebaseVerifier{client: client, projectID: projectID}, nil
}

func (v *firebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("verify id token: %w", err)
	}
	if token.Audience != v.projectID {
		return "", fmt.Errorf("token audience mismatch: got %q", token.Audience)
	}
	email, _ := token.Claims["email"].(string)
	if email == "" {
		return "", errors.New("email not found in token")
	}
	if verified, _ := token.Claims["email_verified"].(bool); !verified {
		return "", errors.New("email not verified")
	}
	return email, nil
}
