package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ahmedsomaa/picloom/internal/database"
	"github.com/ahmedsomaa/picloom/internal/entity"
	"github.com/ahmedsomaa/picloom/internal/pkg/processor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetResult(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockCache) SetResult(ctx context.Context, key string, img string) error {
	args := m.Called(ctx, key, img)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, key string, message interface{}) error {
	args := m.Called(ctx, key, message)
	return args.Error(0)
}

func (m *MockProducer) Close() error {
	return nil
}

func pngDataURI(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return entity.EncodeDataURI("image/png", buf.Bytes())
}

func newTestService(t *testing.T, cache database.ResultCache, producer *MockProducer) ResizeService {
	t.Helper()
	p, err := processor.NewImageProcessor(processor.EngineImaging, 90)
	require.NoError(t, err)
	return NewResizeService(p, cache, producer, 1000, 100*100)
}

func TestResizeProducesDataURI(t *testing.T) {
	producer := new(MockProducer)
	producer.
		On("Publish", mock.Anything, "req-1", mock.MatchedBy(func(e entity.ResizeEvent) bool {
			return e.TargetWidth == 40 && e.TargetHeight == 20 && e.SourceWidth == 80 && !e.CacheHit
		})).
		Return(nil)

	svc := newTestService(t, database.NewNoopCache(), producer)

	img, err := svc.Resize(context.Background(), "req-1", entity.ResizeRequest{
		Dimensions: entity.Dimensions{Width: "40", Height: "20"},
		Image:      entity.ImagePayload{Base64: pngDataURI(t, 80, 40), Type: "image/png"},
	})
	require.NoError(t, err)

	mediaType, data, err := entity.DecodeDataURI(img)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mediaType)

	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 40, decoded.Bounds().Dx())
	assert.Equal(t, 20, decoded.Bounds().Dy())

	producer.AssertExpectations(t)
}

func TestResizeKeepsAspectRatioWithOneDimension(t *testing.T) {
	producer := new(MockProducer)
	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(t, database.NewNoopCache(), producer)

	img, err := svc.Resize(context.Background(), "req-2", entity.ResizeRequest{
		Dimensions: entity.Dimensions{Width: " 40 ", Height: ""},
		Image:      entity.ImagePayload{Base64: pngDataURI(t, 80, 40), Type: "image/png"},
	})
	require.NoError(t, err)

	_, data, err := entity.DecodeDataURI(img)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 20, cfg.Height)
}

func TestResizeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		req     entity.ResizeRequest
		wantErr error
	}{
		{
			name: "non numeric width",
			req: entity.ResizeRequest{
				Dimensions: entity.Dimensions{Width: "abc", Height: "10"},
			},
			wantErr: entity.ErrInvalidDimensions,
		},
		{
			name: "negative height",
			req: entity.ResizeRequest{
				Dimensions: entity.Dimensions{Width: "10", Height: "-5"},
			},
			wantErr: entity.ErrInvalidDimensions,
		},
		{
			name: "both empty",
			req: entity.ResizeRequest{
				Dimensions: entity.Dimensions{},
			},
			wantErr: entity.ErrInvalidDimensions,
		},
		{
			name: "too large",
			req: entity.ResizeRequest{
				Dimensions: entity.Dimensions{Width: "5000"},
			},
			wantErr: entity.ErrInvalidDimensions,
		},
		{
			name: "unsupported type",
			req: entity.ResizeRequest{
				Dimensions: entity.Dimensions{Width: "10"},
				Image:      entity.ImagePayload{Base64: entity.EncodeDataURI("text/plain", []byte("hello world")), Type: "text/plain"},
			},
			wantErr: entity.ErrUnsupportedType,
		},
		{
			name: "source over pixel limit",
			req: entity.ResizeRequest{
				Dimensions: entity.Dimensions{Width: "10", Height: "10"},
				Image:      entity.ImagePayload{Base64: pngDataURI(t, 200, 60), Type: "image/png"},
			},
			wantErr: entity.ErrInvalidImage,
		},
		{
			name: "truncated header",
			req: entity.ResizeRequest{
				Dimensions: entity.Dimensions{Width: "10"},
				Image:      entity.ImagePayload{Base64: entity.EncodeDataURI("image/png", []byte("\x89PNG\r\n\x1a\n")), Type: "image/png"},
			},
			wantErr: entity.ErrInvalidImage,
		},
		{
			name: "broken base64",
			req: entity.ResizeRequest{
				Dimensions: entity.Dimensions{Width: "10"},
				Image:      entity.ImagePayload{Base64: "data:image/png;base64,***", Type: "image/png"},
			},
			wantErr: entity.ErrInvalidImage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.req.Image.Base64 == "" {
				tt.req.Image = entity.ImagePayload{Base64: pngDataURI(t, 10, 10), Type: "image/png"}
			}

			producer := new(MockProducer)
			svc := newTestService(t, database.NewNoopCache(), producer)

			_, err := svc.Resize(context.Background(), "req", tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestResizeServesCachedResult(t *testing.T) {
	cache := new(MockCache)
	cache.On("GetResult", mock.Anything, mock.AnythingOfType("string")).Return("data:image/png;base64,Y2FjaGVk", true, nil)

	producer := new(MockProducer)
	producer.
		On("Publish", mock.Anything, "req-3", mock.MatchedBy(func(e entity.ResizeEvent) bool { return e.CacheHit })).
		Return(nil)

	svc := newTestService(t, cache, producer)

	img, err := svc.Resize(context.Background(), "req-3", entity.ResizeRequest{
		Dimensions: entity.Dimensions{Width: "5"},
		Image:      entity.ImagePayload{Base64: pngDataURI(t, 10, 10), Type: "image/png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,Y2FjaGVk", img)

	cache.AssertNotCalled(t, "SetResult", mock.Anything, mock.Anything, mock.Anything)
	producer.AssertExpectations(t)
}

func TestResizeIgnoresCacheAndEventFailures(t *testing.T) {
	cache := new(MockCache)
	cache.On("GetResult", mock.Anything, mock.Anything).Return("", false, errors.New("redis down"))
	cache.On("SetResult", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	producer := new(MockProducer)
	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("kafka down"))

	svc := newTestService(t, cache, producer)

	img, err := svc.Resize(context.Background(), "req-4", entity.ResizeRequest{
		Dimensions: entity.Dimensions{Height: "5"},
		Image:      entity.ImagePayload{Base64: pngDataURI(t, 10, 10), Type: "image/png"},
	})
	require.NoError(t, err)
	assert.Contains(t, img, "data:image/png;base64,")

	cache.AssertExpectations(t)
	producer.AssertExpectations(t)
}
