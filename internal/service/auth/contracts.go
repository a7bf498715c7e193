//go:generate mockgen -source=contracts.go -destination=auth_mocks_test.go -package=auth_test

package auth

import (
	"context"

	"service-rider-web/internal/domain"
)

type authAPI interface {
	LoginWithGoogle(ctx context.Context, idToken string) (domain.AuthResult, error)
	Me(ctx context.Context) (*domain.User, error)
}

type counter interface {
	Inc()
}
