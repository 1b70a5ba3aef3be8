package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/adrianliechti/redactor/pkg/pii"
)

const maxUploadSize = 64 << 20

var errInvalidDocument = errors.New("file is not a pdf document")

type uploadFile struct {
	Name    string
	Content []byte
}

func (h *Handler) readFile(r *http.Request) (*uploadFile, error) {
	file, header, err := r.FormFile("file")

	if err != nil {
		return nil, err
	}

	defer file.Close()

	data, err := io.ReadAll(file)

	if err != nil {
		return nil, err
	}

	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, errInvalidDocument
	}

	name := filepath.Base(header.Filename)

	if name == "." || name == string(filepath.Separator) {
		name = "document.pdf"
	}

	return &uploadFile{
		Name:    name,
		Content: data,
	}, nil
}

func valueCategories(r *http.Request) ([]pii.Category, error) {
	var result []pii.Category

	for _, val := range r.Form["categories"] {
		for _, item := range strings.Split(val, ",") {
			if strings.TrimSpace(item) == "" {
				continue
			}

			c, err := pii.ParseCategory(item)

			if err != nil {
				return nil, errors.New("invalid category: " + item)
			}

			result = append(result, c)
		}
	}

	return result, nil
}

func (h *Handler) jobDir(id string) string {
	return filepath.Join(h.Jobs.Dir, id)
}

func (h *Handler) inputPath(id string) string {
	return filepath.Join(h.jobDir(id), "input.pdf")
}

func (h *Handler) outputPath(id string) string {
	return filepath.Join(h.jobDir(id), "output.pdf")
}
