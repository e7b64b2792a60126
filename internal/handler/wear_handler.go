package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/acadwear/faculty-wear-api/internal/model"
	"github.com/acadwear/faculty-wear-api/internal/service"
	"github.com/labstack/echo/v4"
)

type WearHandler struct {
	svc service.WearService
}

func NewWearHandler(svc service.WearService) *WearHandler {
	return &WearHandler{svc: svc}
}

type WearResponse struct {
	ID            uint64   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"image_url"`
	BadgeText     string   `json:"badge_text"`
	StandardPrice float64  `json:"standard_price"`
	CustomPrice   *float64 `json:"custom_price"`
	AddToCartText string   `json:"add_to_cart_text"`
	AddToCartLink string   `json:"add_to_cart_link"`
	BuyNowText    string   `json:"buy_now_text"`
	BuyNowLink    string   `json:"buy_now_link"`
	Order         int      `json:"order"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

func (h *WearHandler) List(c echo.Context) error {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = service.DefaultPage
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 {
		limit = service.DefaultLimit
	}
	if limit > service.MaxLimit {
		limit = service.MaxLimit
	}
	search := strings.TrimSpace(c.QueryParam("search"))

	wears, total, err := h.svc.List(c.Request().Context(), page, limit, search)
	if err != nil {
		return h.writeError(c, err)
	}

	resp := ListEnvelope{
		Success: true,
		Data:    make([]WearResponse, 0, len(wears)),
		Total:   total,
		Page:    page,
		Limit:   limit,
	}
	for i := range wears {
		resp.Data = append(resp.Data, toWearResponse(&wears[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *WearHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, NewErrorEnvelope("Wear not found"))
	}
	wear, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, ItemEnvelope{Success: true, Data: toWearResponse(wear)})
}

func (h *WearHandler) Create(c echo.Context) error {
	image, err := imageFromRequest(c)
	if err != nil {
		return h.writeError(c, err)
	}
	wear, err := h.svc.Create(c.Request().Context(), wearFormFromRequest(c), image)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, ItemEnvelope{
		Success: true,
		Data:    toWearResponse(wear),
		Message: "Faculty wear created successfully",
	})
}

func (h *WearHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, NewErrorEnvelope("Wear not found"))
	}
	image, err := imageFromRequest(c)
	if err != nil {
		return h.writeError(c, err)
	}
	res, err := h.svc.Update(c.Request().Context(), id, wearFormFromRequest(c), image)
	if err != nil {
		return h.writeError(c, err)
	}
	if res.CleanupErr != nil {
		c.Logger().Warnf("faculty wear %d: %v", id, res.CleanupErr)
	}
	return c.JSON(http.StatusOK, ItemEnvelope{
		Success: true,
		Data:    toWearResponse(res.Wear),
		Message: "Faculty wear updated successfully",
	})
}

func (h *WearHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, NewErrorEnvelope("Wear not found"))
	}
	res, err := h.svc.Delete(c.Request().Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	if res.CleanupErr != nil {
		c.Logger().Warnf("faculty wear %d: %v", id, res.CleanupErr)
	}
	return c.JSON(http.StatusOK, MessageEnvelope{
		Success: true,
		Message: "Faculty wear deleted successfully",
	})
}

func (h *WearHandler) writeError(c echo.Context, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, NewErrorEnvelope("Validation failed", verr.Details...))
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorEnvelope("Wear not found"))
	case errors.Is(err, service.ErrImageRequired):
		return c.JSON(http.StatusBadRequest, NewErrorEnvelope("Image is required"))
	case errors.Is(err, service.ErrImageUpload):
		c.Logger().Errorf("faculty wear: %v", err)
		return c.JSON(http.StatusBadRequest, NewErrorEnvelope("Failed to upload image"))
	case errors.Is(err, service.ErrDeleteFailed):
		return c.JSON(http.StatusInternalServerError, NewErrorEnvelope("Failed to delete wear"))
	default:
		c.Logger().Errorf("faculty wear: %v", err)
		return c.JSON(http.StatusInternalServerError, NewErrorEnvelope("Internal server error"))
	}
}

func wearFormFromRequest(c echo.Context) service.WearForm {
	return service.WearForm{
		Title:         c.FormValue("title"),
		Description:   c.FormValue("description"),
		BadgeText:     c.FormValue("badge_text"),
		StandardPrice: c.FormValue("standard_price"),
		CustomPrice:   c.FormValue("custom_price"),
		AddToCartText: c.FormValue("add_to_cart_text"),
		AddToCartLink: c.FormValue("add_to_cart_link"),
		BuyNowText:    c.FormValue("buy_now_text"),
		BuyNowLink:    c.FormValue("buy_now_link"),
		DisplayOrder:  c.FormValue("order"),
	}
}

// imageFromRequest reads the optional image part off the multipart form.
// A request without one yields nil, not an error.
func imageFromRequest(c echo.Context) (*service.ImageUpload, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &service.ImageUpload{Data: data, Filename: fh.Filename}, nil
}

func toWearResponse(wear *model.FacultyWear) WearResponse {
	return WearResponse{
		ID:            wear.ID,
		Title:         wear.Title,
		Description:   wear.Description,
		ImageURL:      wear.ImageURL,
		BadgeText:     wear.BadgeText,
		StandardPrice: wear.StandardPrice,
		CustomPrice:   wear.CustomPrice,
		AddToCartText: wear.AddToCartText,
		AddToCartLink: wear.AddToCartLink,
		BuyNowText:    wear.BuyNowText,
		BuyNowLink:    wear.BuyNowLink,
		Order:         wear.DisplayOrder,
		CreatedAt:     wear.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     wear.UpdatedAt.Format(time.RFC3339),
	}
}
