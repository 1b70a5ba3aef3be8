package azure

type OperationStatus string

const (
	OperationStatusSucceeded  OperationStatus = "succeeded"
	OperationStatusRunning    OperationStatus = "running"
	OperationStatusNotStarted OperationStatus = "notStarted"
)

type AnalyzeOperation struct {
	Status OperationStatus `json:"status"`

	Result AnalyzeResult `json:"analyzeResult"`
}

type AnalyzeResult struct {
	ModelID string `json:"modelId"`

	Content string   `json:"content"`
	Pages   []Page   `json:"pages"`
	Figures []Figure `json:"figures"`
}

type Page struct {
	PageNumber int `json:"pageNumber"`

	Unit   string  `json:"unit"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Words []Word `json:"words"`
}

type Word struct {
	Content string `json:"content"`

	Polygon []float64 `json:"polygon"`

	Confidence float64 `json:"confidence"`
}

type Figure struct {
	ID string `json:"id"`

	BoundingRegions []BoundingRegion `json:"boundingRegions"`
}

type BoundingRegion struct {
	PageNumber int       `json:"pageNumber"`
	Polygon    []float64 `json:"polygon"`
}
