package entity

import "shuttle/internal/values"

// Speaker is a named presenter attached to events and presentations.
type Speaker struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

// Event is a calendar entry: date, time, and location with attachments and a
// speaker list.
type Event struct {
	Core
	Location    string            `json:"location,omitempty"`
	Attachments []*values.FileRef `json:"attachments,omitempty"`
	Speakers    []Speaker         `json:"speakers,omitempty"`
}

// Category identifies the content category.
func (e *Event) Category() Category { return CategoryEvent }

// Files returns the downloadable-files view: the event's attachments.
func (e *Event) Files() []*values.FileRef {
	var out []*values.FileRef
	return appendFile(out, e.Attachments...)
}

// AddAttachment appends a validated file attachment.
func (e *Event) AddAttachment(ref *values.FileRef) {
	if ref != nil {
		e.Attachments = append(e.Attachments, ref)
	}
}

// AddSpeaker appends a speaker, skipping unnamed entries.
func (e *Event) AddSpeaker(name, title string) {
	if name != "" {
		e.Speakers = append(e.Speakers, Speaker{Name: name, Title: title})
	}
}
