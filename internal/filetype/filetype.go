// Package filetype classifies files by extension and decides upload
// eligibility. All functions are pure.
package filetype

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/tiadocs/tia/internal/models"
)

// MaxUploadSize is the upload size ceiling (50 MiB).
const MaxUploadSize = 50 << 20

// ErrNotUploadable is returned for files whose MIME type is not allow-listed
// and whose size is at or above MaxUploadSize.
var ErrNotUploadable = errors.New("file type not allowed and size exceeds limit")

var typeByExt = map[string]models.DocumentType{
	".pdf":  models.DocumentTypePDF,
	".doc":  models.DocumentTypeWord,
	".docx": models.DocumentTypeWord,
	".rtf":  models.DocumentTypeWord,
	".xls":  models.DocumentTypeExcel,
	".xlsx": models.DocumentTypeExcel,
	".csv":  models.DocumentTypeExcel,
	".ppt":  models.DocumentTypePowerPoint,
	".pptx": models.DocumentTypePowerPoint,
	".png":  models.DocumentTypeImage,
	".jpg":  models.DocumentTypeImage,
	".jpeg": models.DocumentTypeImage,
	".gif":  models.DocumentTypeImage,
	".bmp":  models.DocumentTypeImage,
	".webp": models.DocumentTypeImage,
	".txt":  models.DocumentTypeText,
	".md":   models.DocumentTypeText,
}

var allowedMIME = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {},
	"application/vnd.ms-powerpoint":                                             {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"text/plain": {},
	"text/csv":   {},
	"image/png":  {},
	"image/jpeg": {},
}

// Detect maps a filename to its coarse document type by lowercase extension.
// Unknown extensions fall back to Text.
func Detect(filename string) models.DocumentType {
	ext := strings.ToLower(filepath.Ext(filename))
	if t, ok := typeByExt[ext]; ok {
		return t
	}
	return models.DocumentTypeText
}

// ValidateUpload reports whether a file may be uploaded. A file is eligible
// when its declared MIME type is allow-listed OR its size is under
// MaxUploadSize. The OR is intentional: a file of any type passes the size
// check alone. MIME parameters ("; charset=...") are ignored.
func ValidateUpload(mimeType string, size int64) error {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if _, ok := allowedMIME[mt]; ok {
		return nil
	}
	if size < MaxUploadSize {
		return nil
	}
	return ErrNotUploadable
}
