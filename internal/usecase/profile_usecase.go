package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// プロフィール管理。role変更は明示的な管理操作で、必ず監査ログを残す
type ProfileUsecase struct {
	tx repo.TransactionManager
}

// DI
func NewProfileUsecase(tx repo.TransactionManager) *ProfileUsecase {
	return &ProfileUsecase{tx: tx}
}

func (u *ProfileUsecase) Get(ctx context.Context, profileID string) (model.Profile, error) {
	if _, err := uuid.Parse(profileID); err != nil {
		return model.Profile{}, NewValidationError(map[string]string{"profile_id": "must be a uuid"})
	}

	var p model.Profile
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		p, err = r.Profiles().FindByID(ctx, profileID)
		if err == repo.ErrNotFound {
			return ErrNotFound
		}
		return err
	})
	if err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

// roleを変更する。自分自身のroleは下げられない（最後の管理者の締め出し防止）
func (u *ProfileUsecase) UpdateRole(ctx context.Context, actorID string, profileID string, role model.Role) error {
	if actorID == "" {
		return ErrUnauthenticated
	}
	if _, err := uuid.Parse(profileID); err != nil {
		return NewValidationError(map[string]string{"profile_id": "must be a uuid"})
	}
	if role != model.RoleAdmin && role != model.RoleCustomer {
		return NewValidationError(map[string]string{"role": "must be one of admin, customer"})
	}
	if actorID == profileID {
		return NewValidationError(map[string]string{"profile_id": "cannot change your own role"})
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Profiles().FindByID(ctx, profileID)
		if err == repo.ErrNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if p.Role == role {
			return nil
		}

		if err := r.Profiles().UpdateRole(ctx, profileID, role); err != nil {
			if err == repo.ErrNotFound {
				return ErrNotFound
			}
			return err
		}

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorID:      actorID,
			Action:       model.AuditActionUpdateRole,
			ResourceType: model.AuditResourceProfile,
			ResourceID:   profileID,
			BeforeJSON:   fmt.Sprintf(`{"role":%q}`, string(p.Role)),
			AfterJSON:    fmt.Sprintf(`{"role":%q}`, string(role)),
			CreatedAt:    time.Now(),
		})
	})
}
