package model

import (
	"path/filepath"
	"strings"
	"time"
)

// File is the metadata of one uploaded print file. The bytes live in object
// storage under StoragePath; the core never touches raw content.
type File struct {
	ID           string    `json:"id"`
	OrderID      string    `json:"order_id"`
	Name         string    `json:"name"`
	Format       string    `json:"format,omitempty"`
	Size         int64     `json:"size"`
	ResolutionDPI int      `json:"resolution_dpi"`
	ColorProfile string    `json:"color_profile"`
	StoragePath  string    `json:"storage_path"`
	CreatedAt    time.Time `json:"created_at"`
}

var fileExtensions = []string{".pdf", ".jpg", ".jpeg"}

// ValidateFile checks the print-readiness constraints of an upload before it
// is attached to an order. There is deliberately a single validation path:
// nothing is deferred to the persistence layer.
func ValidateFile(name string, resolutionDPI int, colorProfile string) error {
	ext := strings.ToLower(filepath.Ext(name))
	ok := false
	for _, e := range fileExtensions {
		if ext == e {
			ok = true
			break
		}
	}
	if !ok {
		return invalid("file", "must be a .pdf, .jpg or .jpeg file")
	}

	if resolutionDPI != 150 && resolutionDPI != 300 {
		return invalid("resolution_dpi", "must be 150 or 300")
	}

	switch strings.ToUpper(colorProfile) {
	case "CMJN", "CMYK":
	default:
		return invalid("color_profile", "must be CMJN or CMYK")
	}

	return nil
}
