package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"
)

type MovementRequest struct {
	ProductID int64  `json:"product_id"`
	Delta     int64  `json:"delta"`
	Reason    string `json:"reason"`
	Notes     string `json:"notes"`
}

// /admin/inventory。手動の入荷・棚卸調整の入口
type AdminInventoryHandler struct {
	inventory *usecase.InventoryUsecase
}

// DI
func NewAdminInventoryHandler(inventory *usecase.InventoryUsecase) *AdminInventoryHandler {
	return &AdminInventoryHandler{inventory: inventory}
}

func (h *AdminInventoryHandler) RegisterRoutes(admin *echo.Group) {
	admin.POST("/inventory/movements", h.recordMovement)
}

func (h *AdminInventoryHandler) recordMovement(c echo.Context) error {
	var req MovementRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	actorID, ok := middleware.PrincipalID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
	}

	entry, err := h.inventory.RecordMovement(c.Request().Context(), actorID, usecase.RecordMovementInput{
		ProductID: req.ProductID,
		Delta:     req.Delta,
		Reason:    model.MovementReason(req.Reason),
		Notes:     req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, entry)
}
