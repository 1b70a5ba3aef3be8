package region

import (
	"fmt"
	"log/slog"

	"github.com/adrianliechti/redactor/pkg/pii"
)

const DefaultConfidence = 0.8

// Profile is a size and aspect-ratio envelope for one kind of image.
type Profile struct {
	Category pii.Category

	MinWidth, MaxWidth   float64
	MinHeight, MaxHeight float64
	MinAspect, MaxAspect float64
}

func (p Profile) Matches(width, height float64) bool {
	aspect := 1.0

	if height > 0 {
		aspect = width / height
	}

	return width >= p.MinWidth && width <= p.MaxWidth &&
		height >= p.MinHeight && height <= p.MaxHeight &&
		aspect >= p.MinAspect && aspect <= p.MaxAspect
}

// DefaultProfiles are tested in order; the first match wins.
var DefaultProfiles = []Profile{
	{
		Category: pii.CategoryPhoto,

		MinWidth: 30, MaxWidth: 150,
		MinHeight: 30, MaxHeight: 150,
		MinAspect: 0.6, MaxAspect: 1.7,
	},
	{
		Category: pii.CategorySignature,

		MinWidth: 40, MaxWidth: 250,
		MinHeight: 15, MaxHeight: 80,
		MinAspect: 1.5, MaxAspect: 8.0,
	},
	{
		Category: pii.CategoryLogo,

		MinWidth: 15, MaxWidth: 100,
		MinHeight: 15, MaxHeight: 100,
		MinAspect: 0.3, MaxAspect: 3.0,
	},
}

type Detector struct {
	profiles []Profile
}

func New(profiles ...Profile) *Detector {
	if len(profiles) == 0 {
		profiles = DefaultProfiles
	}

	return &Detector{
		profiles: profiles,
	}
}

// Classify returns the category of the first profile matching the placement.
func (d *Detector) Classify(p pii.Placement) (pii.Category, bool) {
	w := p.Box.Width()
	h := p.Box.Height()

	for _, profile := range d.profiles {
		if profile.Matches(w, h) {
			return profile.Category, true
		}
	}

	return "", false
}

// Detect turns classifiable placements into detections; others are ignored.
func (d *Detector) Detect(placements []pii.Placement, page int) []pii.Detection {
	var result []pii.Detection

	for i, p := range placements {
		category, ok := d.Classify(p)

		if !ok {
			slog.Debug("unclassified image", "page", page, "name", p.Name, "width", p.Box.Width(), "height", p.Box.Height())
			continue
		}

		result = append(result, pii.Detection{
			Candidate: pii.Candidate{
				Text:     fmt.Sprintf("IMAGE_%d_%s", i, category),
				Category: category,

				PatternIndex: -1,
				Confidence:   DefaultConfidence,

				Page: page,
			},

			Box:    p.Box.Normalize(),
			Method: pii.MethodImageAnalysis,
		})
	}

	return result
}
