package raster

import (
	"context"
	"errors"
	"image"
)

var ErrUnavailable = errors.New("rasterizer unavailable")

// Rasterizer renders a single 1-based page of a PDF file to a bitmap.
type Rasterizer interface {
	Render(ctx context.Context, path string, page int, dpi float64) (image.Image, error)
}
