package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/openmeet/salas/internal/domain"
)

type createRoomRequest struct {
	Name        string `json:"name" binding:"required,min=3"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
}

type joinRoomRequest struct {
	RoomID string `json:"roomId" binding:"required"`
}

func (api *API) createRoomHandler(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	room, err := api.Registry.CreateRoom(c.Request.Context(), req.Name, req.Description, req.Capacity, c.GetString(userIDKey))
	if err != nil {
		writeRegistryError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"msg":  "room created",
		"room": room,
	})
}

func (api *API) listRoomsHandler(c *gin.Context) {
	rooms, err := api.Registry.ListRooms(c.Request.Context())
	if err != nil {
		writeRegistryError(c, err)
		return
	}
	if rooms == nil {
		rooms = []domain.Room{}
	}
	c.JSON(http.StatusOK, rooms)
}

func (api *API) joinRoomHandler(c *gin.Context) {
	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	room, remaining, err := api.Registry.JoinRoom(c.Request.Context(), domain.RoomID(req.RoomID), c.GetString(userIDKey))
	if err != nil {
		writeRegistryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"msg":            fmt.Sprintf("you joined the room: %s", room.Name),
		"room":           room,
		"vagasRestantes": remaining,
	})
}

// writeRegistryError maps the domain taxonomy onto status codes. Storage
// details are logged but never sent to the caller.
func writeRegistryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	case errors.Is(err, domain.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "room not found"})
	case errors.Is(err, domain.ErrAlreadyMember):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "you are already in the room"})
	case errors.Is(err, domain.ErrRoomFull):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "the room is full"})
	default:
		log.Error().Err(err).Str("module", "adapters.http").Msg("registry error")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "server error"})
	}
}
