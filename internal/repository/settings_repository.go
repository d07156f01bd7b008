package repository

import (
	"context"

	"app/internal/domain/model"
)

type StoreSettingsRepository interface {
	FindByUserID(ctx context.Context, userID string) (model.StoreSettings, error)

	//user_idの行がなければ作成、あれば更新
	Upsert(ctx context.Context, s model.StoreSettings) (model.StoreSettings, error)
}
