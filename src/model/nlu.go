package model

// ----------------------------------------------------
// ================ Request ================
type NLURequest struct {
	Text       string `json:"text"`
	CustomerID string `json:"customer_id,omitempty"`
}

// ----------------------------------------------------
// ================ Result ================
// NLUResult is the engine-facing reading of one utterance: a single intent
// token plus flat string slots. Source records whether the model or the
// keyword fallback produced it.
type NLUResult struct {
	Intent     string            `json:"intent"`
	Slots      map[string]string `json:"slots"`
	Confidence float64           `json:"confidence"`
	Source     string            `json:"source,omitempty"`
}

const (
	NLUSourceModel    = "model"
	NLUSourceFallback = "fallback"
)
