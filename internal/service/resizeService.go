package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strconv"
	"strings"
	"time"

	"github.com/ahmedsomaa/picloom/internal/database"
	"github.com/ahmedsomaa/picloom/internal/entity"
	"github.com/ahmedsomaa/picloom/internal/pkg/processor"
	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

var supportedTypes = map[string]string{
	"image/png":  processor.FormatPNG,
	"image/jpeg": processor.FormatJPEG,
	"image/webp": processor.FormatWEBP,
}

func (s *resizeService) Resize(ctx context.Context, requestID string, req entity.ResizeRequest) (string, error) {
	start := time.Now()
	log := logrus.WithField("request_id", requestID)

	_, data, err := entity.DecodeDataURI(req.Image.Base64)
	if err != nil {
		return "", err
	}

	// the declared type comes from the browser, the bytes decide
	mediaType := mimetype.Detect(data).String()
	format, ok := supportedTypes[mediaType]
	if !ok {
		return "", fmt.Errorf("%w: got %s", entity.ErrUnsupportedType, mediaType)
	}
	if declared := strings.ToLower(req.Image.Type); declared != "" && declared != mediaType {
		log.Warnf("Declared type %s does not match detected %s", declared, mediaType)
	}

	if err := s.checkSource(data); err != nil {
		return "", err
	}

	width, height, err := s.parseDimensions(req.Dimensions)
	if err != nil {
		return "", err
	}

	key := database.ResultKey(mediaType, strconv.Itoa(width), strconv.Itoa(height), data)

	cached, hit, err := s.cache.GetResult(ctx, key)
	if err != nil {
		log.Warnf("Result cache lookup failed: %v", err)
	}
	if hit {
		log.Debug("Result cache hit")
		s.publish(ctx, entity.ResizeEvent{
			RequestID:    requestID,
			MediaType:    mediaType,
			TargetWidth:  width,
			TargetHeight: height,
			BytesIn:      len(data),
			BytesOut:     len(cached),
			DurationMs:   time.Since(start).Milliseconds(),
			CacheHit:     true,
		})
		return cached, nil
	}

	result, err := s.processor.Process(data, format, width, height)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrInvalidImage, err)
	}

	img := entity.EncodeDataURI(result.MediaType, result.Data)

	if err := s.cache.SetResult(ctx, key, img); err != nil {
		log.Warnf("Result cache store failed: %v", err)
	}

	s.publish(ctx, entity.ResizeEvent{
		RequestID:    requestID,
		MediaType:    mediaType,
		SourceWidth:  result.SourceWidth,
		SourceHeight: result.SourceHeight,
		TargetWidth:  result.Width,
		TargetHeight: result.Height,
		BytesIn:      len(data),
		BytesOut:     len(result.Data),
		DurationMs:   time.Since(start).Milliseconds(),
	})

	log.WithFields(logrus.Fields{
		"media_type": mediaType,
		"width":      result.Width,
		"height":     result.Height,
	}).Info("Image resized")

	return img, nil
}

func (s *resizeService) publish(ctx context.Context, event entity.ResizeEvent) {
	if err := s.producer.Publish(ctx, event.RequestID, event); err != nil {
		logrus.WithField("request_id", event.RequestID).Errorf("Failed to publish resize event: %v", err)
	}
}

// checkSource reads only the image header, so oversized sources are
// refused before any pixel buffer is allocated.
func (s *resizeService) checkSource(data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: empty image", entity.ErrInvalidImage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(s.maxPixels) {
		return fmt.Errorf("%w: source %dx%d exceeds %d pixels", entity.ErrInvalidImage, cfg.Width, cfg.Height, s.maxPixels)
	}
	return nil
}

// parseDimensions treats an empty side as "keep aspect ratio".
func (s *resizeService) parseDimensions(d entity.Dimensions) (int, int, error) {
	width, err := s.parseDimension("width", d.Width)
	if err != nil {
		return 0, 0, err
	}
	height, err := s.parseDimension("height", d.Height)
	if err != nil {
		return 0, 0, err
	}
	if width == 0 && height == 0 {
		return 0, 0, fmt.Errorf("%w: width or height is required", entity.ErrInvalidDimensions)
	}
	return width, height, nil
}

func (s *resizeService) parseDimension(name, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", entity.ErrInvalidDimensions, name, value)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", entity.ErrInvalidDimensions, name)
	}
	if n > s.maxDimension {
		return 0, fmt.Errorf("%w: %s exceeds %d", entity.ErrInvalidDimensions, name, s.maxDimension)
	}
	return n, nil
}
