package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ResultCache stores resized data URIs by request fingerprint.
type ResultCache interface {
	GetResult(ctx context.Context, key string) (string, bool, error)
	SetResult(ctx context.Context, key string, img string) error
}

// ResultKey fingerprints everything that determines a resize output.
func ResultKey(mediaType, width, height string, payload []byte) string {
	h := sha256.New()
	h.Write([]byte(strings.Join([]string{mediaType, width, height}, "|")))
	h.Write([]byte{0})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

type noopCache struct{}

func NewNoopCache() ResultCache {
	return noopCache{}
}

func (noopCache) GetResult(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

func (noopCache) SetResult(ctx context.Context, key string, img string) error {
	return nil
}
