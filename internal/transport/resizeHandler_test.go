package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmedsomaa/picloom/internal/entity"
	"github.com/ahmedsomaa/picloom/internal/transport/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockResizeService struct {
	mock.Mock
}

func (m *MockResizeService) Resize(ctx context.Context, requestID string, req entity.ResizeRequest) (string, error) {
	args := m.Called(ctx, requestID, req)
	return args.String(0), args.Error(1)
}

const validBody = `{"dimensions":{"width":"100","height":"50"},"image":{"base64":"data:image/png;base64,AAAA","type":"image/png"}}`

func newTestRouter(svc *MockResizeService, maxBody int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return InitRoutes(NewResizeHandler(svc), RouterConfig{MaxBodyBytes: maxBody, Timeout: time.Second})
}

func doRequest(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestResizeImageSuccess(t *testing.T) {
	svc := new(MockResizeService)
	svc.
		On("Resize", mock.Anything, mock.AnythingOfType("string"), entity.ResizeRequest{
			Dimensions: entity.Dimensions{Width: "100", Height: "50"},
			Image:      entity.ImagePayload{Base64: "data:image/png;base64,AAAA", Type: "image/png"},
		}).
		Return("data:image/png;base64,BBBB", nil)

	router := newTestRouter(svc, 1<<20)
	w := doRequest(router, httptest.NewRequest(http.MethodPost, "/api/resize", strings.NewReader(validBody)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"img":"data:image/png;base64,BBBB"}}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	svc.AssertExpectations(t)
}

func TestResizeImagePassesRequestID(t *testing.T) {
	svc := new(MockResizeService)
	svc.On("Resize", mock.Anything, "fixed-id", mock.Anything).Return("data:image/png;base64,BBBB", nil)

	req := httptest.NewRequest(http.MethodPost, "/api/resize", strings.NewReader(validBody))
	req.Header.Set(middleware.RequestIDHeader, "fixed-id")

	w := doRequest(newTestRouter(svc, 1<<20), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fixed-id", w.Header().Get(middleware.RequestIDHeader))
	svc.AssertExpectations(t)
}

func TestResizeImagePayloadTooLarge(t *testing.T) {
	large := fmt.Sprintf(`{"dimensions":{"width":"1","height":"1"},"image":{"base64":"%s","type":"image/png"}}`,
		strings.Repeat("A", 2048))

	t.Run("content length", func(t *testing.T) {
		svc := new(MockResizeService)
		w := doRequest(newTestRouter(svc, 1024), httptest.NewRequest(http.MethodPost, "/api/resize", strings.NewReader(large)))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.JSONEq(t, `{"error":"Image size exceeded 1MB"}`, w.Body.String())
		svc.AssertNotCalled(t, "Resize", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("streamed body", func(t *testing.T) {
		svc := new(MockResizeService)
		req := httptest.NewRequest(http.MethodPost, "/api/resize", strings.NewReader(large))
		req.ContentLength = -1

		w := doRequest(newTestRouter(svc, 1024), req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		svc.AssertNotCalled(t, "Resize", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestResizeImageBadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"dimensions":`},
		{name: "missing image", body: `{"dimensions":{"width":"1","height":"1"}}`},
		{name: "missing type", body: `{"dimensions":{"width":"1"},"image":{"base64":"AAAA"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockResizeService)
			w := doRequest(newTestRouter(svc, 1<<20), httptest.NewRequest(http.MethodPost, "/api/resize", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			svc.AssertNotCalled(t, "Resize", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestResizeImageServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "invalid image", err: fmt.Errorf("%w: bad", entity.ErrInvalidImage), status: http.StatusBadRequest},
		{name: "invalid dimensions", err: fmt.Errorf("%w: width", entity.ErrInvalidDimensions), status: http.StatusBadRequest},
		{name: "unsupported type", err: entity.ErrUnsupportedType, status: http.StatusUnsupportedMediaType},
		{name: "unexpected", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockResizeService)
			svc.On("Resize", mock.Anything, mock.Anything, mock.Anything).Return("", tt.err)

			w := doRequest(newTestRouter(svc, 1<<20), httptest.NewRequest(http.MethodPost, "/api/resize", strings.NewReader(validBody)))

			assert.Equal(t, tt.status, w.Code)

			var body entity.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestHealthAndCORS(t *testing.T) {
	router := newTestRouter(new(MockResizeService), 1<<20)

	w := doRequest(router, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"picloom"}`, w.Body.String())

	w = doRequest(router, httptest.NewRequest(http.MethodOptions, "/api/resize", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
