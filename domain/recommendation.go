package domain

// Recommendation source tiers, reported for observability.
const (
	RecoSourceExternal   = "external"
	RecoSourceEngine     = "engine"
	RecoSourcePopularity = "popularity"
)

// Recommendations is the public result of a recommendation request.
// Source names the tier that produced the candidate list.
type Recommendations struct {
	Items  []Product `json:"items"`
	Count  int       `json:"count"`
	Source string    `json:"source"`
}
