package pii

type WordToken struct {
	Box  Rect   `json:"box"`
	Text string `json:"text"`
}

type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
)

type Method string

const (
	MethodPatternMatch  Method = "pattern_match"
	MethodImageAnalysis Method = "image_analysis"
)

// Candidate is an unlocated match produced from page text.
type Candidate struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`

	PatternIndex int     `json:"pattern_index"`
	Confidence   float64 `json:"confidence"`

	Page int `json:"page"`
}

// Detection is a located and validated region ready for redaction.
type Detection struct {
	Candidate

	Box    Rect   `json:"box"`
	Method Method `json:"method"`
}

// Placement is an embedded raster object drawn on a page.
type Placement struct {
	Name string `json:"name"`
	Box  Rect   `json:"box"`
}

type LayoutStats struct {
	Count int

	AvgWidth  float64
	AvgHeight float64
	AvgArea   float64

	MinWidth  float64
	MaxWidth  float64
	MaxHeight float64
	MaxArea   float64

	ContentDensity float64
	TextVariation  float64
}

type Limits struct {
	MinWidth  float64 `json:"min_width"`
	MaxWidth  float64 `json:"max_width"`
	MinHeight float64 `json:"min_height"`
	MaxHeight float64 `json:"max_height"`
	MinArea   float64 `json:"min_area"`
	MaxArea   float64 `json:"max_area"`
}
