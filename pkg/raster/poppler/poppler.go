package poppler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/adrianliechti/redactor/pkg/raster"
)

var _ raster.Rasterizer = (*Client)(nil)

// Client shells out to pdftoppm.
type Client struct {
	binary string
}

type Option func(*Client)

func WithBinary(path string) Option {
	return func(c *Client) {
		c.binary = path
	}
}

func New(options ...Option) (*Client, error) {
	c := &Client{
		binary: "pdftoppm",
	}

	for _, option := range options {
		option(c)
	}

	if _, err := exec.LookPath(c.binary); err != nil {
		return nil, fmt.Errorf("%w: %s", raster.ErrUnavailable, c.binary)
	}

	return c, nil
}

func (c *Client) Render(ctx context.Context, path string, page int, dpi float64) (image.Image, error) {
	if page < 1 {
		return nil, errors.New("invalid page")
	}

	dir, err := os.MkdirTemp("", "raster-*")

	if err != nil {
		return nil, err
	}

	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")

	args := []string{
		"-png",
		"-r", strconv.FormatFloat(dpi, 'f', 2, 64),
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		"-singlefile",
		path,
		prefix,
	}

	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm page %d: %w: %s", page, err, bytes.TrimSpace(stderr.Bytes()))
	}

	f, err := os.Open(prefix + ".png")

	if err != nil {
		return nil, err
	}

	defer f.Close()

	return png.Decode(f)
}
