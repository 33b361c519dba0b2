// Package web serves the menu mini-app page and a small JSON API.
package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"restaurant-menu/config"
	"restaurant-menu/lang"
	"restaurant-menu/menu"
	"restaurant-menu/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

var pageTmpl = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"photoURL":    photoURL,
	"categoryURL": categoryURL,
	"dishURL":     dishURL,
}).ParseFS(templatesFS, "templates/index.html"))

// DishSource is a menu.Source that can also look up a single dish.
type DishSource interface {
	menu.Source
	Dish(ctx context.Context, id models.ID) (*models.Dish, error)
}

// PhotoSource opens a photo by its opaque handle. The body is streamed to
// the client and closed after the response is written.
type PhotoSource interface {
	OpenPhoto(ctx context.Context, fileID string) (io.ReadCloser, string, error)
}

type Server struct {
	app    *fiber.App
	src    DishSource
	photos PhotoSource
	cfg    config.WebConfig
}

// New builds the server. photos may be nil, in which case non-URL photo
// handles are not served.
func New(src DishSource, photos PhotoSource, cfg config.WebConfig) *Server {
	s := &Server{src: src, photos: photos, cfg: cfg}
	s.app = fiber.New(fiber.Config{
		IdleTimeout:           5 * time.Second,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})
	s.routes()
	return s
}

func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen(addr string) error { return s.app.Listen(addr) }

func (s *Server) ShutdownWithTimeout(d time.Duration) error {
	return s.app.ShutdownWithTimeout(d)
}

func (s *Server) routes() {
	s.app.Use(requestLogger())
	s.app.Use("/static", filesystem.New(filesystem.Config{
		Root:       http.FS(staticFS),
		PathPrefix: "static",
	}))

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	api := s.app.Group("/api")
	api.Get("/categories", s.handleCategories)
	api.Get("/categories/:id/dishes", s.handleDishes)
	api.Get("/dishes/:id", s.handleDish)
	api.All("/*", func(c *fiber.Ctx) error {
		return notFound("route.not_found", "Not found")
	})

	s.app.Get("/photo/:id", s.handlePhoto)
	s.app.Get("/", s.handlePage)
	// Unknown paths without an extension are client routes; serve the page.
	s.app.Get("/*", func(c *fiber.Ctx) error {
		if strings.Contains(c.Path(), ".") {
			return notFound("route.not_found", "Not found")
		}
		return s.handlePage(c)
	})
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		rid := c.Get(fiber.HeaderXRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("request_id", rid)
		c.Set(fiber.HeaderXRequestID, rid)

		err := c.Next()
		if err != nil {
			// Run the error handler now so the logged status is the real one.
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		zap.L().Info("request",
			zap.String("request_id", rid),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("took", time.Since(start)))
		return nil
	}
}

func requestID(c *fiber.Ctx) string {
	rid, _ := c.Locals("request_id").(string)
	return rid
}

type pageData struct {
	*menu.Page
	Lang   string
	Active models.ID
}

func (d pageData) T(key string) string { return lang.T(d.Lang, key) }

// handlePage runs one menu session for the request and renders the result.
// ?category= picks the active tab, ?dish= opens the detail overlay.
func (s *Server) handlePage(c *fiber.Ctx) error {
	log := zap.L().With(zap.String("request_id", requestID(c)))
	page := menu.NewPage()
	ctrl := menu.NewController(s.src, page, page, menu.Options{
		Lang:            s.cfg.Lang,
		Currency:        s.cfg.Currency,
		InitialCategory: models.ID(c.Query("category")),
		Logger:          log,
	})
	ctrl.Initialize(c.UserContext())

	if dish := c.Query("dish"); dish != "" {
		if err := ctrl.ShowDish(models.ID(dish)); err != nil {
			log.Debug("detail not shown", zap.String("dish_id", dish), zap.Error(err))
		}
	}

	active, _ := ctrl.ActiveCategory()
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, pageData{Page: page, Lang: s.cfg.Lang, Active: active}); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (s *Server) handleCategories(c *fiber.Ctx) error {
	cats, err := s.src.Categories(c.UserContext())
	if err != nil {
		return fromService(err)
	}
	if cats == nil {
		cats = []models.Category{}
	}
	return c.JSON(cats)
}

func (s *Server) handleDishes(c *fiber.Ctx) error {
	dishes, err := s.src.Dishes(c.UserContext(), models.ID(c.Params("id")))
	if err != nil {
		return fromService(err)
	}
	if dishes == nil {
		dishes = []models.Dish{}
	}
	return c.JSON(dishes)
}

func (s *Server) handleDish(c *fiber.Ctx) error {
	d, err := s.src.Dish(c.UserContext(), models.ID(c.Params("id")))
	if err != nil {
		return fromService(err)
	}
	return c.JSON(d)
}

// handlePhoto proxies the photo bytes so the upstream download URL stays on
// the server.
func (s *Server) handlePhoto(c *fiber.Ctx) error {
	if s.photos == nil {
		return notFound("photo.unavailable", "Photo not available")
	}
	body, contentType, err := s.photos.OpenPhoto(c.UserContext(), c.Params("id"))
	if err != nil {
		zap.L().Warn("open photo", zap.String("request_id", requestID(c)), zap.Error(err))
		return notFound("photo.not_found", "Photo not found")
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = "image/jpeg"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.SendStream(body)
}

// photoURL returns absolute image URLs unchanged and routes other handles
// through /photo.
func photoURL(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return "/photo/" + url.PathEscape(ref)
}

func categoryURL(id models.ID) string {
	if id == "" {
		return "/"
	}
	return "/?" + url.Values{"category": {id.String()}}.Encode()
}

func dishURL(category, dish models.ID) string {
	q := url.Values{"dish": {dish.String()}}
	if category != "" {
		q.Set("category", category.String())
	}
	return "/?" + q.Encode()
}
