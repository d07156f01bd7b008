package usecase

import (
	"context"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/validator"
)

// 店舗設定。管理ユーザーごとに1行をupsertする
type SettingsUsecase struct {
	settingsRepo repo.StoreSettingsRepository
	validate     *validator.InputValidator
}

// DI
func NewSettingsUsecase(settingsRepo repo.StoreSettingsRepository, validate *validator.InputValidator) *SettingsUsecase {
	return &SettingsUsecase{settingsRepo: settingsRepo, validate: validate}
}

// 行がまだ無ければ空の設定を返す（初回表示用）
func (u *SettingsUsecase) Get(ctx context.Context, actorID string) (model.StoreSettings, error) {
	if actorID == "" {
		return model.StoreSettings{}, ErrUnauthenticated
	}

	s, err := u.settingsRepo.FindByUserID(ctx, actorID)
	if err == repo.ErrNotFound {
		return model.StoreSettings{UserID: actorID}, nil
	}
	if err != nil {
		return model.StoreSettings{}, err
	}
	return s, nil
}

type StoreSettingsInput struct {
	StoreName    string `json:"store_name" validate:"required,max=255"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone string `json:"contact_phone" validate:"omitempty,max=50"`

	AddressStreet  string `json:"address_street" validate:"omitempty,max=255"`
	AddressCity    string `json:"address_city" validate:"omitempty,max=255"`
	AddressState   string `json:"address_state" validate:"omitempty,max=255"`
	AddressZipCode string `json:"address_zip_code" validate:"omitempty,max=20"`

	LogoURL      string `json:"logo_url"`
	DefaultTheme string `json:"default_theme" validate:"omitempty,oneof=light dark system"`
}

func (u *SettingsUsecase) Update(ctx context.Context, actorID string, in StoreSettingsInput) (model.StoreSettings, error) {
	if actorID == "" {
		return model.StoreSettings{}, ErrUnauthenticated
	}
	if fields := u.validate.StructFields(in); len(fields) > 0 {
		return model.StoreSettings{}, NewValidationError(fields)
	}

	s, err := u.settingsRepo.Upsert(ctx, model.StoreSettings{
		UserID:         actorID,
		StoreName:      in.StoreName,
		ContactEmail:   in.ContactEmail,
		ContactPhone:   in.ContactPhone,
		AddressStreet:  in.AddressStreet,
		AddressCity:    in.AddressCity,
		AddressState:   in.AddressState,
		AddressZipCode: in.AddressZipCode,
		LogoURL:        in.LogoURL,
		DefaultTheme:   in.DefaultTheme,
		UpdatedAt:      time.Now(),
	})
	if err != nil {
		return model.StoreSettings{}, err
	}
	return s, nil
}
