package entity

import "errors"

var (
	// Transport errors
	ErrPayloadTooLarge = errors.New("Image size exceeded 1MB")

	// Session errors
	ErrNoImage        = errors.New("no image selected")
	ErrSubmitInFlight = errors.New("resize already in progress")
	ErrAlreadyResized = errors.New("image already resized, reset first")
	ErrNoResult       = errors.New("no resized image available")
	ErrDiscarded      = errors.New("resize result discarded, image was cleared")

	// Resize errors
	ErrInvalidImage      = errors.New("invalid image encoding")
	ErrUnsupportedType   = errors.New("unsupported image type, only PNG, JPG, JPEG and WEBP are supported")
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrMissingResult     = errors.New("resize response did not contain an image")
)
