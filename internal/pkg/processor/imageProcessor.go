package processor

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/sirupsen/logrus"

	// registers the webp decoder with image.Decode
	_ "golang.org/x/image/webp"
)

const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatWEBP = "webp"

	EngineImaging = "imaging"
	EngineNfnt    = "nfnt"
)

type ImageProcessor interface {
	Process(data []byte, format string, width, height int) (*Result, error)
}

type Result struct {
	Data         []byte
	MediaType    string
	SourceWidth  int
	SourceHeight int
	Width        int
	Height       int
}

// resizeFunc keeps the aspect ratio when one of width or height is 0.
type resizeFunc func(img image.Image, width, height int) image.Image

type imageProcessor struct {
	engine      string
	resize      resizeFunc
	jpegQuality int
}

func NewImageProcessor(engine string, jpegQuality int) (ImageProcessor, error) {
	p := &imageProcessor{engine: engine, jpegQuality: jpegQuality}

	switch engine {
	case EngineImaging, "":
		p.engine = EngineImaging
		p.resize = resizeImaging
	case EngineNfnt:
		p.resize = resizeNfnt
	default:
		return nil, fmt.Errorf("unknown resize engine: %s", engine)
	}

	return p, nil
}

func (p *imageProcessor) Process(data []byte, format string, width, height int) (*Result, error) {
	img, err := p.decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	processed := p.resize(img, width, height)

	out, mediaType, err := p.encode(processed, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"engine": p.engine,
		"format": format,
		"from":   fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
		"to":     fmt.Sprintf("%dx%d", processed.Bounds().Dx(), processed.Bounds().Dy()),
	}).Debug("Image resized")

	return &Result{
		Data:         out,
		MediaType:    mediaType,
		SourceWidth:  bounds.Dx(),
		SourceHeight: bounds.Dy(),
		Width:        processed.Bounds().Dx(),
		Height:       processed.Bounds().Dy(),
	}, nil
}

func (p *imageProcessor) decode(data []byte, format string) (image.Image, error) {
	switch format {
	case FormatJPEG, FormatPNG, FormatWEBP:
		return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func (p *imageProcessor) encode(img image.Image, format string) ([]byte, string, error) {
	var buf bytes.Buffer

	switch format {
	case FormatJPEG:
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.jpegQuality)); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/jpeg", nil
	default:
		// there is no pure Go webp encoder, webp comes back as png
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/png", nil
	}
}

func resizeImaging(img image.Image, width, height int) image.Image {
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

func resizeNfnt(img image.Image, width, height int) image.Image {
	return resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
}
