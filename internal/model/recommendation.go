package model

// Recommendation is one advisory item produced by the deterministic
// reasoner (or an AI path honoring the same contract).
type Recommendation struct {
	Type        string             `json:"type"`
	Category    string             `json:"category"`
	Title       string             `json:"title"`
	Summary     string             `json:"summary"`
	Explain     string             `json:"explain,omitempty"`
	Impact      map[string]float64 `json:"impact,omitempty"`
	Priority    string             `json:"priority"`
	Confidence  float64            `json:"confidence"`
	Evidence    []string           `json:"evidence,omitempty"`
	DataSources []string           `json:"data_sources,omitempty"`
}
