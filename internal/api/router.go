package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/yatube/yatube/internal/api/handler"
	"github.com/yatube/yatube/internal/api/middleware"
	"github.com/yatube/yatube/internal/core/ports"
)

// csrfField is the form field carrying the CSRF token.
const csrfField = "csrfmiddlewaretoken"

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Auth     ports.AuthService
	Posts    ports.PostService
	Comments ports.CommentService
	Follows  ports.FollowService

	Renderer echo.Renderer
	Log      zerolog.Logger
	Cookie   handler.CookieConfig

	// Checks feed the readiness probe, keyed by dependency name.
	Checks map[string]handler.Checker

	// MaxBodyBytes caps request bodies, uploads included. Zero disables the cap.
	MaxBodyBytes int64

	// Registry receives the HTTP request metrics. A fresh registry is used
	// when nil. /metrics serves it together with the default registry.
	Registry *prometheus.Registry

	DisableCSRF bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.Renderer = d.Renderer
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	// --- Global middleware ---
	e.Pre(echomiddleware.AddTrailingSlashWithConfig(echomiddleware.TrailingSlashConfig{
		Skipper:      skipTrailingSlash,
		RedirectCode: http.StatusMovedPermanently,
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	if d.MaxBodyBytes > 0 {
		e.Use(echomiddleware.BodyLimit(bodyLimit(d.MaxBodyBytes)))
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	if !d.DisableCSRF {
		e.Use(echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
			TokenLookup:    "form:" + csrfField,
			ContextKey:     "csrf",
			CookieName:     "csrftoken",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSameSite: http.SameSiteLaxMode,
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Path(), "/health") || c.Path() == "/metrics"
			},
		}))
	}
	e.Use(middleware.Session(d.Auth, d.Log))

	loginRequired := middleware.LoginRequired()

	// --- Handlers ---
	postHandler := handler.NewPostHandler(d.Posts, d.Log)
	commentHandler := handler.NewCommentHandler(d.Comments)
	followHandler := handler.NewFollowHandler(d.Follows)
	authHandler := handler.NewAuthHandler(d.Auth, d.Cookie, d.Log)

	// --- Feeds ---
	e.GET("/", postHandler.Index)
	e.GET("/group/:slug/", postHandler.GroupPosts)
	e.GET("/profile/:username/", postHandler.Profile)
	e.GET("/follow/", postHandler.FollowIndex, loginRequired)

	// --- Posts ---
	e.GET("/create/", postHandler.CreateForm, loginRequired)
	e.POST("/create/", postHandler.Create, loginRequired)
	e.GET("/posts/:id/", postHandler.Detail)
	e.GET("/posts/:id/edit/", postHandler.EditForm)
	e.POST("/posts/:id/edit/", postHandler.Edit)
	e.POST("/posts/:id/comment", commentHandler.Add, loginRequired)

	// --- Follows ---
	e.GET("/profile/:username/follow/", followHandler.Follow, loginRequired)
	e.GET("/profile/:username/unfollow/", followHandler.Unfollow, loginRequired)

	// --- Accounts ---
	e.GET("/auth/signup/", authHandler.SignupForm)
	e.POST("/auth/signup/", authHandler.Signup)
	e.GET("/auth/login/", authHandler.LoginForm)
	e.POST("/auth/login/", authHandler.Login)
	e.Match([]string{http.MethodGet, http.MethodPost}, "/auth/logout/", authHandler.Logout)

	// --- Static pages ---
	e.GET("/about/author/", handler.Static("about/author.html"))
	e.GET("/about/tech/", handler.Static("about/tech.html"))

	// --- Health probes and metrics ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))

	return e
}

// skipTrailingSlash leaves alone everything that is not a page view: form
// posts, the comment endpoint, probes and metrics.
func skipTrailingSlash(c echo.Context) bool {
	r := c.Request()
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return true
	}
	p := r.URL.Path
	return strings.HasPrefix(p, "/health") || p == "/metrics" || strings.HasSuffix(p, "/comment")
}

// bodyLimit renders n bytes in the unit syntax BodyLimit expects, rounded
// up to whole kilobytes.
func bodyLimit(n int64) string {
	return strconv.FormatInt((n+1023)/1024, 10) + "K"
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
