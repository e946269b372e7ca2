package repository

import (
	"context"

	"printapi/internal/model"
)

// UserRepository is the narrow read surface the core needs over accounts:
// resolving notification recipients and order owners. Account creation and
// credentials belong to the external auth collaborator.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
