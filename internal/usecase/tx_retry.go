package usecase

import (
	"context"
	"errors"

	repo "app/internal/repository"
)

// 直列化失敗などの一時的競合をやり直す上限
const maxTxAttempts = 3

// repo.ErrConflictのときだけ上限までトランザクションごとやり直す。
// 上限を超えたら呼び出し側へErrConflictを返す
func withinTxRetry(ctx context.Context, tx repo.TransactionManager, fn func(r repo.TxRepos) error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = tx.WithinTx(ctx, fn)
		if !errors.Is(err, repo.ErrConflict) {
			return err
		}
	}
	return ErrConflict
}
