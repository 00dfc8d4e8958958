package entity

// SelectedImage is the single image a session holds.
type SelectedImage struct {
	Name      string
	MediaType string
	Data      []byte
}

type Dimensions struct {
	Width  string `json:"width"`
	Height string `json:"height"`
}

type ImagePayload struct {
	Base64 string `json:"base64" binding:"required"`
	Type   string `json:"type" binding:"required"`
}

type ResizeRequest struct {
	Dimensions Dimensions   `json:"dimensions"`
	Image      ImagePayload `json:"image"`
}

type ResizedImage struct {
	Img string `json:"img"`
}

type ResizeResponse struct {
	Data *ResizedImage `json:"data,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ResizeEvent is published once per completed resize.
type ResizeEvent struct {
	RequestID    string `json:"request_id"`
	MediaType    string `json:"media_type"`
	SourceWidth  int    `json:"source_width"`
	SourceHeight int    `json:"source_height"`
	TargetWidth  int    `json:"target_width"`
	TargetHeight int    `json:"target_height"`
	BytesIn      int    `json:"bytes_in"`
	BytesOut     int    `json:"bytes_out"`
	DurationMs   int64  `json:"duration_ms"`
	CacheHit     bool   `json:"cache_hit"`
}
