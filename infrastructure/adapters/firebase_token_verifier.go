package adapters

import (
	"context"
	"errors"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/Sukhman-Singh-Narula/STServer/application/ports/outbound"
)

var ErrInvalidToken = errors.New("invalid or expired id token")

type firebaseTokenVerifier struct {
	logger     outbound.LoggerPort
	authClient *fbauth.Client
}

func NewFirebaseTokenVerifier(logger outbound.LoggerPort, authClient *fbauth.Client) outbound.TokenVerifierPort {
	return &firebaseTokenVerifier{
		logger:     logger,
		authClient: authClient,
	}
}

func (v *firebaseTokenVerifier) Verify(ctx context.Context, idToken string) (string, error) {
	if idToken == "" {
		return "", ErrInvalidToken
	}
	token, err := v.authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		v.logger.Debug("ID token verification failed: " + err.Error())
		return "", ErrInvalidToken
	}
	return token.UID, nil
}
