package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/openmeet/salas/internal/domain"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (api *API) registerHandler(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if _, err := api.Auth.Register(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "user already exists"})
			return
		}
		log.Error().Err(err).Str("module", "adapters.http").Msg("register error")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "user registered"})
}

func (api *API) loginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	token, err := api.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrAuth) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid credentials"})
			return
		}
		log.Error().Err(err).Str("module", "adapters.http").Msg("login error")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
