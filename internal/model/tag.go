package model

// Tag is a named label attachable to many documents. Names are unique.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
