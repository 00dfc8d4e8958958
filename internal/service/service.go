package service

import (
	"context"

	"github.com/ahmedsomaa/picloom/internal/database"
	"github.com/ahmedsomaa/picloom/internal/entity"
	"github.com/ahmedsomaa/picloom/internal/pkg/kafka"
	"github.com/ahmedsomaa/picloom/internal/pkg/processor"
)

type ResizeService interface {
	// Resize returns the resized image as a data URI.
	Resize(ctx context.Context, requestID string, req entity.ResizeRequest) (string, error)
}

type resizeService struct {
	processor    processor.ImageProcessor
	cache        database.ResultCache
	producer     kafka.Producer
	maxDimension int
	maxPixels    int
}

func NewResizeService(processor processor.ImageProcessor, cache database.ResultCache, producer kafka.Producer, maxDimension, maxSourcePixels int) ResizeService {
	return &resizeService{
		processor:    processor,
		cache:        cache,
		producer:     producer,
		maxDimension: maxDimension,
		maxPixels:    maxSourcePixels,
	}
}
