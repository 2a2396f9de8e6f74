package models

import "time"

// AnalysisResponse is the body returned by the analysis endpoints.
// Quality repeats Freshness. Warning is null when the food is fresh.
type AnalysisResponse struct {
	FoodType            string  `json:"foodType"`
	Confidence          float64 `json:"confidence"`
	Freshness           string  `json:"freshness"`
	Quality             string  `json:"quality"`
	IsEdible            bool    `json:"isEdible"`
	Warning             *string `json:"warning"`
	FreshnessConfidence float64 `json:"freshnessConfidence"`
	ImageHash           string  `json:"imageHash,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// URLAnalysisRequest asks the service to fetch and analyze a remote image.
type URLAnalysisRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// ServiceInfo is returned by the root endpoint.
type ServiceInfo struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status   string          `json:"status"`
	Version  string          `json:"version"`
	Time     time.Time       `json:"time"`
	Model    *ModelStatus    `json:"model,omitempty"`
	Analyses *AnalysisCounts `json:"analyses,omitempty"`
}

// ModelStatus describes the loaded classifier.
type ModelStatus struct {
	Classes int    `json:"classes"`
	Layout  string `json:"layout"`
}

// AnalysisCounts are the totals since startup.
type AnalysisCounts struct {
	Total     int64 `json:"total"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
}
