package entity

import "shuttle/internal/values"

// Presentation is a slide deck with optional audio and video recordings and a
// speaker list.
type Presentation struct {
	Core
	Slides   *values.FileRef `json:"presentation_file,omitempty"`
	Audio    *values.FileRef `json:"audio_file,omitempty"`
	Video    *values.FileRef `json:"video_file,omitempty"`
	Speakers []Speaker       `json:"speakers,omitempty"`
}

// Category identifies the content category.
func (p *Presentation) Category() Category { return CategoryPresentation }

// Files returns the downloadable-files view: slides, then audio, then video.
func (p *Presentation) Files() []*values.FileRef {
	var out []*values.FileRef
	out = appendFile(out, p.Slides)
	out = appendFile(out, p.Audio)
	out = appendFile(out, p.Video)
	return out
}

// AddSpeaker appends a speaker, skipping unnamed entries.
func (p *Presentation) AddSpeaker(name, title string) {
	if name != "" {
		p.Speakers = append(p.Speakers, Speaker{Name: name, Title: title})
	}
}
