package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/acadwear/faculty-wear-api/internal/handler"
	"github.com/acadwear/faculty-wear-api/internal/imagestore"
	"github.com/acadwear/faculty-wear-api/internal/repository"
	"github.com/acadwear/faculty-wear-api/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type Server struct {
	e     *echo.Echo
	sha   string
	build string
}

func New(db *gorm.DB, images imagestore.Store, sha, buildTime string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			return strings.HasSuffix(u.Hostname(), "vercel.app"), nil
		},
	}))

	wearRepo := repository.NewWearRepository(db)
	wearSvc := service.NewWearService(wearRepo, images)
	wearHandler := handler.NewWearHandler(wearSvc)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})

	wears := e.Group("/api/faculty-wear")
	wears.GET("", wearHandler.List)
	wears.GET("/", wearHandler.List)
	wears.POST("", wearHandler.Create)
	wears.POST("/", wearHandler.Create)
	wears.GET("/:id", wearHandler.Get)
	wears.PUT("/:id", wearHandler.Update)
	wears.DELETE("/:id", wearHandler.Delete)

	return &Server{e: e, sha: sha, build: buildTime}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}
