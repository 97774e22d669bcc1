// Package http wires the gin surface: auth endpoints, the room registry API
// and the websocket signaling endpoint.
package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/openmeet/salas/internal/adapters/signal"
	"github.com/openmeet/salas/internal/app"
	"github.com/openmeet/salas/internal/auth"
	"github.com/openmeet/salas/internal/config"
)

// API bundles the services the HTTP surface fronts.
type API struct {
	Registry *app.Registry
	Relay    *app.Relay
	Auth     *auth.Service
	Tokens   *auth.TokenService
}

func genClientToken() string {
	return uuid.NewString()
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, api *API) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("SalasSessions", store))
	r.Use(ClientTokenMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "server running")
	})

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Mode).Msg("router setup")

	group := r.Group("/api")

	ctrl := signal.NewSignalWSController(api.Relay, cfg)
	group.GET("/ws/signal", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("ct", c.GetString("client_token")).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	group.POST("/auth/register", api.registerHandler)
	group.POST("/auth/login", api.loginHandler)

	rooms := group.Group("/rooms", AuthRequired(api.Tokens))
	rooms.POST("", api.createRoomHandler)
	rooms.GET("", api.listRoomsHandler)
	rooms.POST("/join", api.joinRoomHandler)

	return r
}
