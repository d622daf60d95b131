package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ragequitlabs/ragewatch/internal/account"
	"github.com/ragequitlabs/ragewatch/internal/auth"
	"github.com/ragequitlabs/ragewatch/internal/catalog"
	"github.com/ragequitlabs/ragewatch/internal/profile"
)

const sessionContextKey = "ragewatch_session"

var (
	errMissingCatalogClient = errors.New("catalog client dependency required")
	errMissingAccountStore  = errors.New("account store dependency required")
	errMissingValidator     = errors.New("session validator dependency required")
)

// TokenValidator resolves a bearer token into visitor claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (auth.VisitorClaims, error)
}

// Dependencies wires the handler's collaborators.
type Dependencies struct {
	Catalog   *catalog.Client
	Accounts  *account.Store
	Validator TokenValidator
	Metrics   *Metrics
	Logger    *zap.Logger
}

// NewHTTPHandler builds the gin router serving the composed view and
// mutation endpoints.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Catalog == nil {
		return nil, errMissingCatalogClient
	}
	if deps.Accounts == nil {
		return nil, errMissingAccountStore
	}
	if deps.Validator == nil {
		return nil, errMissingValidator
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		catalog:  deps.Catalog,
		accounts: deps.Accounts,
		verifier: deps.Validator,
		metrics:  metrics,
		logger:   logger,
	}

	router.GET("/healthz", handler.handleHealth)
	router.GET("/metrics", metrics.Handler())

	views := router.Group("/views")
	views.Use(handler.resolveSession)
	views.GET("/games", handler.handleGamesIndex)
	views.GET("/leaderboards", handler.handleLeaderboards)
	views.GET("/duel", handler.handleDuel)
	views.GET("/games/:id", handler.handleGameView)
	views.GET("/profile", handler.handleProfile)

	me := router.Group("/me")
	me.Use(handler.resolveSession)
	me.POST("/favorites/toggle", handler.handleToggleFavorite)
	me.POST("/rage-events", handler.handleSubmitRageEvent)
	me.POST("/clips", handler.handleSubmitClip)

	return router, nil
}

type httpHandler struct {
	catalog  *catalog.Client
	accounts *account.Store
	verifier TokenValidator
	metrics  *Metrics
	logger   *zap.Logger
}

func (h *httpHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// reconciler builds a per-request reconciler bound to the request's session.
func (h *httpHandler) reconciler(c *gin.Context) (*profile.Reconciler, error) {
	return profile.NewReconciler(profile.ReconcilerConfig{
		Sessions: requestSession(c),
		Briefs:   h.catalog,
		Accounts: h.accounts,
		Logger:   h.logger,
	})
}
