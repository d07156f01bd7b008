package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type StoreSettingsGormRepository struct {
	db *gorm.DB
}

// DI
func NewStoreSettingsGormRepository(db *gorm.DB) *StoreSettingsGormRepository {
	return &StoreSettingsGormRepository{db: db}
}

func (r *StoreSettingsGormRepository) FindByUserID(ctx context.Context, userID string) (model.StoreSettings, error) {
	var s model.StoreSettings
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error
	if isNotFound(err) {
		return model.StoreSettings{}, repo.ErrNotFound
	}
	if err != nil {
		return model.StoreSettings{}, err
	}
	return s, nil
}

// user_idをキーにupsert
func (r *StoreSettingsGormRepository) Upsert(ctx context.Context, s model.StoreSettings) (model.StoreSettings, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"store_name", "contact_email", "contact_phone",
				"address_street", "address_city", "address_state", "address_zip_code",
				"logo_url", "default_theme", "updated_at",
			}),
		}).
		Create(&s).Error
	if err != nil {
		return model.StoreSettings{}, err
	}

	//採番済みIDと作成時刻を取り直す
	return r.FindByUserID(ctx, s.UserID)
}
