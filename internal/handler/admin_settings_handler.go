package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"app/internal/middleware"
	"app/internal/usecase"
)

type StoreSettingsRequest struct {
	StoreName    string `json:"store_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`

	AddressStreet  string `json:"address_street"`
	AddressCity    string `json:"address_city"`
	AddressState   string `json:"address_state"`
	AddressZipCode string `json:"address_zip_code"`

	LogoURL      string `json:"logo_url"`
	DefaultTheme string `json:"default_theme"`
}

// /admin/settings
type AdminSettingsHandler struct {
	settings *usecase.SettingsUsecase
}

// DI
func NewAdminSettingsHandler(settings *usecase.SettingsUsecase) *AdminSettingsHandler {
	return &AdminSettingsHandler{settings: settings}
}

func (h *AdminSettingsHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/settings", h.get)
	admin.PUT("/settings", h.update)
}

func (h *AdminSettingsHandler) get(c echo.Context) error {
	actorID, ok := middleware.PrincipalID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
	}

	s, err := h.settings.Get(c.Request().Context(), actorID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *AdminSettingsHandler) update(c echo.Context) error {
	var req StoreSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	actorID, ok := middleware.PrincipalID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
	}

	s, err := h.settings.Update(c.Request().Context(), actorID, usecase.StoreSettingsInput{
		StoreName:      req.StoreName,
		ContactEmail:   req.ContactEmail,
		ContactPhone:   req.ContactPhone,
		AddressStreet:  req.AddressStreet,
		AddressCity:    req.AddressCity,
		AddressState:   req.AddressState,
		AddressZipCode: req.AddressZipCode,
		LogoURL:        req.LogoURL,
		DefaultTheme:   req.DefaultTheme,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
