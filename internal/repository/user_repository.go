package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByRefreshTokenHash(ctx context.Context, hash string) (model.User, error)
	Update(ctx context.Context, u model.User) error

	UpdateRefreshToken(ctx context.Context, userID string, hash string, expiresAt time.Time) error
	ClearRefreshToken(ctx context.Context, userID string) error
}
