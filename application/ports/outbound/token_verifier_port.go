package outbound

import "context"

// TokenVerifierPort validates a Firebase ID token and returns the user id it
// belongs to.
type TokenVerifierPort interface {
	Verify(ctx context.Context, idToken string) (string, error)
}
