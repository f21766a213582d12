// Package domain holds DTOs for records http and service contracts
package domain

// SourceInfo describes one registry entry
type SourceInfo struct {
	Name     string   `json:"name" example:"claude"`
	Title    string   `json:"title" example:"Anthropic model deprecations"`
	URL      string   `json:"url" example:"https://docs.claude.com/en/docs/about-claude/model-deprecations"`
	Identity []string `json:"identity" example:"source,model_name"`
	Compare  []string `json:"compare" example:"retirement_date,recommended_replacement"`
	MultiTab bool     `json:"multi_tab" example:"false"`
}

// RecordsInput filters the records listing
type RecordsInput struct {
	Source string `query:"source" json:"source" validate:"required,slug"`
}

// RecordRow is one canonical record in API form
type RecordRow struct {
	Source      string `json:"source" example:"claude"`
	Type        string `json:"type,omitempty" example:"Text"`
	ModelName   string `json:"model_name" example:"claude-3-sonnet"`
	Version     string `json:"version,omitempty" example:"2024-08-06"`
	Lifecycle   string `json:"lifecycle_status,omitempty" example:"Generally Available"`
	Deprecation string `json:"deprecation_date,omitempty" example:"2025-04-30"`
	Retirement  string `json:"retirement_date" example:"2025-10-01"`
	Replacement string `json:"recommended_replacement,omitempty" example:"claude-sonnet-4-5"`
	Key         string `json:"key" example:"claude||claude-3-sonnet"`
}

// RecordsResponse wraps the listing for one source
type RecordsResponse struct {
	Source  string      `json:"source" example:"claude"`
	Count   int         `json:"count" example:"12"`
	Records []RecordRow `json:"records"`
}
