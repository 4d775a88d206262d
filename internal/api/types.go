package api

import (
	"time"

	"github.com/eugenenazirov/box-packer/internal/packing"
	"github.com/eugenenazirov/box-packer/internal/storage"
)

type dimensionsPayload struct {
	Height float64 `json:"height" validate:"gt=0"`
	Width  float64 `json:"width" validate:"gt=0"`
	Depth  float64 `json:"depth" validate:"gt=0"`
}

func (d dimensionsPayload) prism() (packing.Prism, error) {
	return packing.NewPrism(d.Height, d.Width, d.Depth)
}

func toDimensions(p packing.Prism) dimensionsPayload {
	return dimensionsPayload{Height: p.Height(), Width: p.Width(), Depth: p.Depth()}
}

type evaluateRequest struct {
	Container *dimensionsPayload `json:"container"`
	Product   *dimensionsPayload `json:"product"`
}

// check validates the request. A nil container selects the stored default.
func (r evaluateRequest) check() error {
	if r.Product == nil {
		return fieldErrors{{Field: "product", Message: "is required"}}
	}
	return validateRequest(r)
}

type batchRequest struct {
	Items []evaluateRequest `json:"items" validate:"min=1"`
}

type orientationPayload struct {
	Code  string `json:"code"`
	XAxis bool   `json:"xAxis"`
	YAxis bool   `json:"yAxis"`
	ZAxis bool   `json:"zAxis"`
}

func toOrientation(o packing.Orientation) orientationPayload {
	return orientationPayload{Code: o.Code(), XAxis: o.XAxis, YAxis: o.YAxis, ZAxis: o.ZAxis}
}

type candidatePayload struct {
	Orientation orientationPayload `json:"orientation"`
	Rotated     dimensionsPayload  `json:"rotated"`
	Units       int                `json:"units"`
}

type evaluationResponse struct {
	ID                    string             `json:"id"`
	Container             dimensionsPayload  `json:"container"`
	Product               dimensionsPayload  `json:"product"`
	Orientation           orientationPayload `json:"orientation"`
	Rotated               dimensionsPayload  `json:"rotated"`
	Units                 int                `json:"units"`
	Utilization           float64            `json:"utilization"`
	Candidates            []candidatePayload `json:"candidates"`
	EvaluatedAt           time.Time          `json:"evaluatedAt"`
	CalculationTimeMicros int64              `json:"calculationTimeMicros,omitempty"`
}

func toEvaluationResponse(rec storage.Record, elapsed time.Duration) evaluationResponse {
	eval := rec.Evaluation
	candidates := make([]candidatePayload, 0, len(eval.Candidates))
	for _, c := range eval.Candidates {
		candidates = append(candidates, candidatePayload{
			Orientation: toOrientation(c.Orientation),
			Rotated:     toDimensions(c.Rotated),
			Units:       c.Units,
		})
	}

	return evaluationResponse{
		ID:                    rec.ID.String(),
		Container:             toDimensions(eval.Container),
		Product:               toDimensions(eval.Product),
		Orientation:           toOrientation(eval.Orientation),
		Rotated:               toDimensions(eval.Rotated),
		Units:                 eval.Units,
		Utilization:           eval.Utilization,
		Candidates:            candidates,
		EvaluatedAt:           rec.CreatedAt,
		CalculationTimeMicros: elapsed.Microseconds(),
	}
}

type batchItemResponse struct {
	Index  int                 `json:"index"`
	Result *evaluationResponse `json:"result,omitempty"`
	Error  *errorResponse      `json:"error,omitempty"`
}

type batchResponse struct {
	Results []batchItemResponse `json:"results"`
	Failed  int                 `json:"failed"`
}

type containerResponse struct {
	Container dimensionsPayload `json:"container"`
	Volume    float64           `json:"volume"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Message   string            `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}
