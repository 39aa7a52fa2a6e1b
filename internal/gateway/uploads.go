package gateway

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"

	"github.com/sergiomvp10/tutti-services/internal/domain"
)

// Upload limits enforced by the upstream API.
const MaxUploadSize = 5 << 20

var uploadExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

type UploadResult struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// CheckUpload validates an upload before it is sent.
func CheckUpload(filename string, size int64) error {
	if !uploadExtensions[strings.ToLower(filepath.Ext(filename))] {
		return domain.NewValidationError("file", "Tipo de archivo no permitido. Use: .jpg, .jpeg, .png, .gif, .webp")
	}
	if size > MaxUploadSize {
		return domain.NewValidationError("file", "Archivo muy grande. Maximo 5MB")
	}
	return nil
}

// Upload sends the file at path as multipart field "file". Admin only.
func (c *Client) Upload(ctx context.Context, path string) (*UploadResult, error) {
	var (
		body string
		code int
		out  UploadResult
	)
	err := c.flow().POST(c.url("/uploads", nil)).
		WithContext(ctx).
		SetHeader(headers(ctx)).
		SetForm(gout.H{"file": gout.FormFile(path)}).
		BindBody(&body).
		Code(&code).
		Do()
	if err := finish("/uploads", err, code, body, &out, "Error al subir archivo"); err != nil {
		return nil, err
	}
	if out.Filename == "" {
		return nil, errors.New("upload response without filename")
	}
	return &out, nil
}

// FileURL is the absolute URL of an uploaded file or of a returned upload path.
func (c *Client) FileURL(nameOrPath string) string {
	if strings.HasPrefix(nameOrPath, "http://") || strings.HasPrefix(nameOrPath, "https://") {
		return nameOrPath
	}
	if strings.HasPrefix(nameOrPath, "/") {
		return c.baseURL + nameOrPath
	}
	return c.baseURL + "/uploads/" + nameOrPath
}
