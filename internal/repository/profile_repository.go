package repository

import (
	"context"

	"app/internal/domain/model"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (model.Profile, error)
	UpdateRole(ctx context.Context, id string, role model.Role) error
}
