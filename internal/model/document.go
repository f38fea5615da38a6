package model

import "time"

// Document is a library record: either an uploaded file or a metadata-only entry.
// This is a pure domain model with no database-specific dependencies or tags.
type Document struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	FileURL     *string `json:"fileUrl"`
	// FileKey is the storage key of an uploaded file. Empty for metadata-only documents.
	FileKey    string    `json:"-"`
	UploadedAt time.Time `json:"uploadedAt"`
	UploadedBy *User     `json:"uploadedBy"`
	Tags       []Tag     `json:"tags"`
}
