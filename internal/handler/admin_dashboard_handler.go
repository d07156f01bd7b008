package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"app/internal/usecase"
)

// /admin/dashboard。サマリカード用の集計を返すだけ
type AdminDashboardHandler struct {
	dashboard *usecase.DashboardUsecase
}

// DI
func NewAdminDashboardHandler(dashboard *usecase.DashboardUsecase) *AdminDashboardHandler {
	return &AdminDashboardHandler{dashboard: dashboard}
}

func (h *AdminDashboardHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/dashboard/summary", h.summary)
}

func (h *AdminDashboardHandler) summary(c echo.Context) error {
	in := usecase.SummaryInput{}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
		}
		in.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
		}
		in.To = &t
	}

	summary, err := h.dashboard.Summary(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
