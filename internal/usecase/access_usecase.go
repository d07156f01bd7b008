package usecase

import (
	"context"

	"github.com/google/uuid"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 認可の結果。許可されたときだけ返る
type AccessResult struct {
	PrincipalID string
	Role        model.Role
}

// セッション→プリンシパル解決と管理者判定。
// roleは外部で変わりうるので結果をリクエストをまたいで使い回さない
type AccessUsecase struct {
	profiles repo.ProfileRepository
}

// DI
func NewAccessUsecase(profiles repo.ProfileRepository) *AccessUsecase {
	return &AccessUsecase{profiles: profiles}
}

// principalIDが空なら未認証。profileが無ければ不整合として拒否。
// role=adminのときだけ許可。副作用なし（profileの自動作成はしない）
func (u *AccessUsecase) Authorize(ctx context.Context, principalID string) (AccessResult, error) {
	if principalID == "" {
		return AccessResult{}, ErrUnauthenticated
	}
	if _, err := uuid.Parse(principalID); err != nil {
		return AccessResult{}, ErrUnauthenticated
	}

	p, err := u.profiles.FindByID(ctx, principalID)
	if err == repo.ErrNotFound {
		return AccessResult{}, ErrProfileMissing
	}
	if err != nil {
		return AccessResult{}, err
	}

	if p.Role != model.RoleAdmin {
		return AccessResult{}, ErrUnauthorized
	}

	return AccessResult{PrincipalID: p.ID, Role: p.Role}, nil
}
