package entity

import "shuttle/internal/values"

// Person is a profile record: job title, department, and portrait photo. The
// shared body field carries the biography.
type Person struct {
	Core
	JobTitle   string          `json:"job_title,omitempty"`
	Department *values.Option  `json:"department,omitempty"`
	Photo      *values.FileRef `json:"photo,omitempty"`
	Email      string          `json:"email,omitempty"`
}

// Category identifies the content category.
func (p *Person) Category() Category { return CategoryPerson }

// Files returns the downloadable-files view: the portrait photo.
func (p *Person) Files() []*values.FileRef {
	var out []*values.FileRef
	return appendFile(out, p.Photo)
}
