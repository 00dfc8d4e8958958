package entity

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const dataURIPrefix = "data:"

// EncodeDataURI renders data as "data:<mediaType>;base64,<payload>".
func EncodeDataURI(mediaType string, data []byte) string {
	return dataURIPrefix + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI accepts a base64 data URI or bare base64 text. For bare
// input the returned media type is empty.
func DecodeDataURI(s string) (mediaType string, data []byte, err error) {
	payload := strings.TrimSpace(s)

	if strings.HasPrefix(payload, dataURIPrefix) {
		header, body, ok := strings.Cut(payload[len(dataURIPrefix):], ",")
		if !ok {
			return "", nil, fmt.Errorf("%w: missing data URI payload", ErrInvalidImage)
		}
		params := strings.Split(header, ";")
		if params[len(params)-1] != "base64" {
			return "", nil, fmt.Errorf("%w: data URI is not base64", ErrInvalidImage)
		}
		mediaType = params[0]
		payload = body
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// some encoders drop the padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	return mediaType, data, nil
}
