package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/acadwear/faculty-wear-api/internal/config"
	"github.com/acadwear/faculty-wear-api/internal/db"
	"github.com/acadwear/faculty-wear-api/internal/imagestore"
	"github.com/acadwear/faculty-wear-api/internal/model"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

type seedWear struct {
	Title         string
	Description   string
	BadgeText     string
	StandardPrice float64
	CustomPrice   float64 // 0 = not offered
	Order         int
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := gdb.AutoMigrate(&model.FacultyWear{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	canSeed, err := shouldSeed(ctx, gdb)
	if err != nil {
		return err
	}
	if !canSeed {
		log.Printf("faculty wear rows already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	images, err := imagestore.FromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init image store: %w", err)
	}

	wears := buildSeedWears()
	now := time.Now()
	for i, sw := range wears {
		data, err := fetchPlaceholder(ctx, fmt.Sprintf("faculty-wear-%d", i+1))
		if err != nil {
			return fmt.Errorf("fetch placeholder for %q: %w", sw.Title, err)
		}
		imageURL, err := images.Upload(ctx, data, fmt.Sprintf("seed-%d.png", i+1))
		if err != nil {
			return fmt.Errorf("upload image for %q: %w", sw.Title, err)
		}

		wear := &model.FacultyWear{
			Title:         sw.Title,
			Description:   sw.Description,
			ImageURL:      imageURL,
			BadgeText:     sw.BadgeText,
			StandardPrice: sw.StandardPrice,
			AddToCartText: "Add to Cart",
			BuyNowText:    "Buy Now",
			DisplayOrder:  sw.Order,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if sw.CustomPrice > 0 {
			custom := sw.CustomPrice
			wear.CustomPrice = &custom
		}
		if err := gdb.WithContext(ctx).Create(wear).Error; err != nil {
			return fmt.Errorf("insert %q: %w", sw.Title, err)
		}
		log.Printf("seeded %q url=%s", sw.Title, imageURL)
	}

	log.Printf("seeded %d faculty wear rows", len(wears))
	return nil
}

func buildSeedWears() []seedWear {
	return []seedWear{
		{Title: "Doctoral Gown", Description: "Full-length doctoral gown in matte black with velvet facing panels.", BadgeText: "Best Seller", StandardPrice: 189.00, CustomPrice: 249.00, Order: 1},
		{Title: "Master's Hood", Description: "Discipline-colored master's hood, satin lining with university trim.", StandardPrice: 64.50, Order: 2},
		{Title: "Faculty Tam", Description: "Six-sided velvet tam with gold bullion tassel.", BadgeText: "New", StandardPrice: 42.00, CustomPrice: 58.00, Order: 3},
		{Title: "Ceremony Stole", Description: "Embroidered ceremony stole, available in all department colors.", StandardPrice: 28.00, Order: 4},
		{Title: "Bachelor's Cap & Gown Set", Description: "Matte bachelor's gown with mortarboard and year tassel.", StandardPrice: 54.00, Order: 5},
		{Title: "Honor Cords", Description: "Double-twist honor cords, sold as a pair.", StandardPrice: 12.50, Order: 6},
	}
}

func shouldSeed(ctx context.Context, gdb *gorm.DB) (bool, error) {
	var cnt int64
	if err := gdb.WithContext(ctx).Model(&model.FacultyWear{}).Count(&cnt).Error; err != nil {
		return false, fmt.Errorf("count faculty wear: %w", err)
	}
	if cnt == 0 {
		return true, nil
	}
	return strings.EqualFold(os.Getenv("FORCE_SEED"), "true"), nil
}

func fetchPlaceholder(ctx context.Context, seed string) ([]byte, error) {
	endpoint := fmt.Sprintf("https://picsum.photos/seed/%s/800/600", url.PathEscape(seed))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("placeholder status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
