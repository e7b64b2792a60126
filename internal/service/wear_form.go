package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/acadwear/faculty-wear-api/internal/model"
)

// WearForm carries the raw multipart form fields of a create or update
// request. Numeric fields stay strings until validation parses them.
type WearForm struct {
	Title         string
	Description   string
	BadgeText     string
	StandardPrice string
	CustomPrice   string
	AddToCartText string
	AddToCartLink string
	BuyNowText    string
	BuyNowLink    string
	DisplayOrder  string
}

// ValidationError collects every field rule the form violates.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}

type wearPayload struct {
	Title         string
	Description   string
	BadgeText     string
	StandardPrice float64
	CustomPrice   *float64
	AddToCartText string
	AddToCartLink string
	BuyNowText    string
	BuyNowLink    string
	DisplayOrder  int
}

// parseWearForm checks every field rule independently and collects all
// violations. A non-numeric price or order is a malformed request rather
// than a rule violation and comes back as the error instead.
func parseWearForm(form WearForm) (*wearPayload, []string, error) {
	var details []string

	p := &wearPayload{
		Title:         strings.TrimSpace(form.Title),
		Description:   strings.TrimSpace(form.Description),
		BadgeText:     strings.TrimSpace(form.BadgeText),
		AddToCartText: strings.TrimSpace(form.AddToCartText),
		AddToCartLink: strings.TrimSpace(form.AddToCartLink),
		BuyNowText:    strings.TrimSpace(form.BuyNowText),
		BuyNowLink:    strings.TrimSpace(form.BuyNowLink),
	}

	if p.Title == "" {
		details = append(details, "Title is required")
	}
	if p.Description == "" {
		details = append(details, "Description is required")
	}

	if v := strings.TrimSpace(form.StandardPrice); v == "" {
		details = append(details, "Standard price is required")
	} else {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid standard_price %q: %w", v, err)
		}
		if price <= 0 {
			details = append(details, "Standard price must be greater than 0")
		}
		p.StandardPrice = price
	}

	if v := strings.TrimSpace(form.CustomPrice); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid custom_price %q: %w", v, err)
		}
		if price <= 0 {
			details = append(details, "Custom price must be greater than 0")
		}
		p.CustomPrice = &price
	}

	if v := strings.TrimSpace(form.DisplayOrder); v == "" {
		details = append(details, "Display order is required")
	} else {
		order, err := strconv.Atoi(v)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid order %q: %w", v, err)
		}
		if order < 1 {
			details = append(details, "Display order must be at least 1")
		}
		p.DisplayOrder = order
	}

	if p.AddToCartText == "" {
		p.AddToCartText = "Add to Cart"
	}
	if p.BuyNowText == "" {
		p.BuyNowText = "Buy Now"
	}

	return p, details, nil
}

// apply overwrites every payload-backed field; updates are full-replace,
// not a partial merge.
func (p *wearPayload) apply(w *model.FacultyWear) {
	w.Title = p.Title
	w.Description = p.Description
	w.BadgeText = p.BadgeText
	w.StandardPrice = p.StandardPrice
	w.CustomPrice = p.CustomPrice
	w.AddToCartText = p.AddToCartText
	w.AddToCartLink = p.AddToCartLink
	w.BuyNowText = p.BuyNowText
	w.BuyNowLink = p.BuyNowLink
	w.DisplayOrder = p.DisplayOrder
}
