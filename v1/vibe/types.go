package vibe

import (
	"context"

	"github.com/verona-ai/profilesearch/v1/profile"
)

//go:generate mockgen -source=types.go -destination=mock_generator.go -package=vibe

// Generator produces a Report for the given inputs.
type Generator interface {
	Generate(ctx context.Context, in Input) (*Report, error)
}

// Input is the model-facing view of a profile.
type Input struct {
	Education  string   `json:"education"`
	Profession string   `json:"profession"`
	Photos     []Photo  `json:"photos"`
	Interests  []string `json:"interests"`
	Blurb      string   `json:"blurb"`
}

type Photo struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Report is the model output.
type Report struct {
	VibeReport string     `json:"vibeReport"`
	Summary    string     `json:"trumpAdamsSummary"`
	ImageTags  []ImageTag `json:"imageTags"`
}

type ImageTag struct {
	PhotoID string   `json:"photoId"`
	Tags    []string `json:"tags"`
}

// InputFromProfile builds the generator input from a normalized profile.
func InputFromProfile(p *profile.Profile) Input {
	photos := make([]Photo, 0, len(p.PhotoCollection))
	for _, ph := range p.PhotoCollection {
		photos = append(photos, Photo{ID: ph.ShowCaseID, URL: ph.URL})
	}
	interests := p.Interests
	if interests == nil {
		interests = []string{}
	}
	return Input{
		Education:  p.Education,
		Profession: p.Profession,
		Photos:     photos,
		Interests:  interests,
		Blurb:      p.Blurb,
	}
}

// LifeStyleTags flattens the per-photo tags, keeping first occurrences in order.
func (r *Report) LifeStyleTags() []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, it := range r.ImageTags {
		for _, tag := range it.Tags {
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

// Apply copies the report outputs onto p. The caller sets the report hash.
func (r *Report) Apply(p *profile.Profile) {
	p.VibeReport = r.VibeReport
	p.ProfileHook = r.Summary
	p.LifeStyleTags = r.LifeStyleTags()
}
