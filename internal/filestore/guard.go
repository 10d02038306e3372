package filestore

import (
	"mime"
	"path/filepath"
	"strings"
)

// allowedTypes is the upload allow-list: common image, document,
// spreadsheet, presentation and plain-text types. Everything else is a
// hard stop.
var allowedTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/gif":          true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-powerpoint":                                     true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"text/plain": true,
}

// ValidateFileType checks the content type against the allow-list. An
// empty content type is inferred from the filename extension first. This
// is a pure allow-list, not a content sniff.
func ValidateFileType(contentType, filename string) bool {
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	}
	// mime.TypeByExtension may append parameters ("text/plain; charset=utf-8")
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return allowedTypes[contentType]
}
