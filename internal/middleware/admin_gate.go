package middleware

import (
	"errors"
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 保護されたエントリポイントごとに認可をやり直す。
// roleは外部で変わりうるのでリクエストをまたいで結果をキャッシュしない
func AdminGate(access *usecase.AccessUsecase) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principalID, ok := PrincipalID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthenticated"))
			}

			_, err := access.Authorize(c.Request().Context(), principalID)
			if errors.Is(err, usecase.ErrUnauthenticated) {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthenticated"))
			}
			//profile欠落は不整合だがクラッシュさせず拒否で返す
			if errors.Is(err, usecase.ErrProfileMissing) || errors.Is(err, usecase.ErrUnauthorized) {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}
			if err != nil {
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}

			return next(c)
		}
	}
}
