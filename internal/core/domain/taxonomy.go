package domain

// Category groups articles into sections.
type Category struct {
	ID          int32   `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

// Tag is a free-form label attachable to many articles.
type Tag struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
