package httpserver

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/step-challenge/internal/core/ports"
)

// formFileField is the multipart field image uploads are read from.
const formFileField = "file"

// readUpload opens the uploaded file. The caller must invoke the returned closer.
func readUpload(c echo.Context) (*ports.FileUpload, io.Closer, error) {
	fh, err := c.FormFile(formFileField)
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	return &ports.FileUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}, f, nil
}
