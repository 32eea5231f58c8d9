package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"fixiBack/internal/models"
)

// imageFormKeys are the multipart field names accepted for image uploads.
var imageFormKeys = []string{"files", "files[]", "images"}

// collectImageFiles gathers every file under the given form keys, in order.
func collectImageFiles(form *multipart.Form, keys ...string) []*multipart.FileHeader {
	if form == nil {
		return nil
	}

	var result []*multipart.FileHeader
	for _, key := range keys {
		if headers, ok := form.File[key]; ok {
			result = append(result, headers...)
		}
	}
	return result
}

// readUploads loads the files into memory. A declared content type of
// octet-stream (or none) is replaced by sniffing the bytes.
func readUploads(files []*multipart.FileHeader, maxSize int64) ([]models.Upload, error) {
	uploads := make([]models.Upload, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxSize {
			return nil, models.InvalidInput("image %s exceeds %d bytes", fh.Filename, maxSize)
		}
		data, err := readFile(fh)
		if err != nil {
			return nil, models.InvalidInput("cannot read %s", fh.Filename)
		}
		if len(data) == 0 {
			return nil, models.InvalidInput("image %s is empty", fh.Filename)
		}
		contentType := fh.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = http.DetectContentType(data)
		}
		uploads = append(uploads, models.Upload{Data: data, ContentType: contentType})
	}
	return uploads, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
