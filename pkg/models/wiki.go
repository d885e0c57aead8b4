package models

// WikiResult is a cleaned-up Wikipedia lookup used to ground a model answer.
type WikiResult struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
	URL     string `json:"url,omitempty"`
}
