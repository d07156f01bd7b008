package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"
)

type RoleUpdateRequest struct {
	Role string `json:"role"`
}

// /admin/profiles。role変更は明示的な管理操作
type AdminProfileHandler struct {
	profiles *usecase.ProfileUsecase
}

// DI
func NewAdminProfileHandler(profiles *usecase.ProfileUsecase) *AdminProfileHandler {
	return &AdminProfileHandler{profiles: profiles}
}

func (h *AdminProfileHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/profiles/:id", h.detail)
	admin.PUT("/profiles/:id/role", h.updateRole)
}

func (h *AdminProfileHandler) detail(c echo.Context) error {
	p, err := h.profiles.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AdminProfileHandler) updateRole(c echo.Context) error {
	var req RoleUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	actorID, ok := middleware.PrincipalID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
	}

	if err := h.profiles.UpdateRole(c.Request().Context(), actorID, c.Param("id"), model.Role(req.Role)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}
