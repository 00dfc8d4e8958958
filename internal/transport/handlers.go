package transport

import (
	"github.com/ahmedsomaa/picloom/internal/service"
)

type ResizeHandler struct {
	service service.ResizeService
}

func NewResizeHandler(service service.ResizeService) *ResizeHandler {
	return &ResizeHandler{service: service}
}
