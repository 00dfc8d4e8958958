package transport

import (
	"errors"
	"net/http"

	"github.com/ahmedsomaa/picloom/internal/entity"
	"github.com/ahmedsomaa/picloom/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

func (h *ResizeHandler) ResizeImage(c *gin.Context) {
	var req entity.ResizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, entity.ErrorResponse{Error: entity.ErrPayloadTooLarge.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}

	requestID := c.GetString(middleware.RequestIDKey)

	img, err := h.service.Resize(c.Request.Context(), requestID, req)
	if err != nil {
		_ = c.Error(err)
		switch {
		case errors.Is(err, entity.ErrInvalidImage), errors.Is(err, entity.ErrInvalidDimensions):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: err.Error()})
		case errors.Is(err, entity.ErrUnsupportedType):
			c.JSON(http.StatusUnsupportedMediaType, entity.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to resize image"})
		}
		return
	}

	c.JSON(http.StatusOK, entity.ResizeResponse{Data: &entity.ResizedImage{Img: img}})
}

func (h *ResizeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/resize", h.ResizeImage)
}
