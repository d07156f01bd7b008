package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// リクエスト境界で回復可能なエラー種別。handlerのwriteErrorでHTTPステータスへ写す
var (
	//セッションなし。ログイン導線へ
	ErrUnauthenticated = errors.New("unauthenticated")

	//セッションはあるがroleがadminでない
	ErrUnauthorized = errors.New("unauthorized")

	//有効なプリンシパルにprofile行がない（データ不整合）。拒否扱いにする
	ErrProfileMissing = errors.New("profile missing")

	//在庫が負になる操作。書き込みは一切行われない
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrNotFound = errors.New("not found")

	//一時的な競合。内部で既定回数リトライした後に出る
	ErrConflict = errors.New("conflict, try again")
)

// フィールド単位でまとめて返すバリデーションエラー。
// 最初の1件で止めず、違反した全フィールドを持つ
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func NewValidationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
