// Package httpapi is the reference inspection HTTP server described in
// SPEC_FULL.md §2.2 (D1): a thin gin layer for driving a named scheduler
// session's next()/stop()/list() operations over HTTP. It never touches
// scheduling semantics directly — every handler delegates to
// internal/host/session.
package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/edirooss/schedsim/internal/host/session"
)

// Deps bundles the wiring an HTTP handler needs. Constructed once in
// cmd/schedsim-server/main.go and closed over by the route closures.
type Deps struct {
	Log *zap.Logger
	Mgr *session.Manager
	// Snapshots is the optional best-effort Redis mirror (D5). Nil
	// disables snapshot publishing entirely.
	Snapshots *session.SnapshotStore
	Status    *StatusCache
}

// NewRouter builds the gin.Engine with the full reference middleware
// stack: recovery, CORS (dev only), cookie-backed session binding,
// request ID, access logging. Shape matches the teacher's
// cmd/zmux-server/main.go wiring almost line for line.
func NewRouter(deps Deps, cookieSecret []byte, devCORS bool) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"127.0.0.1"})

	r.Use(gin.Recovery())

	if devCORS {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	store := cookie.NewStore(cookieSecret)
	store.Options(sessions.Options{
		Path:     "/api",
		MaxAge:   4 * 3600,
		HttpOnly: true,
		SameSite: 0,
	})
	r.Use(sessions.Sessions("schedsim_active", store))

	r.Use(RequestID())
	r.Use(ZapLogger(deps.Log))

	h := &handlers{deps: deps}

	api := r.Group("/api/sessions")
	api.POST("", h.createSession)
	api.GET("/:id/status", h.status)
	api.POST("/:id/next", h.next)
	api.POST("/:id/stop", h.stop)
	api.DELETE("/:id", h.deleteSession)
	api.POST("/:id/activate", h.activate)
	api.GET("/active", h.getActive)

	return r
}
