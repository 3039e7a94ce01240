package types

// Snippet is one ranked grounding excerpt of existing site content, supplied
// to the draft prompt to reduce fabrication. Results are deduplicated by Path,
// keeping the highest score and counting occurrences.
type Snippet struct {
	Path        string  `json:"path"`
	Title       string  `json:"title"`
	Score       float64 `json:"score"`
	Occurrences int     `json:"occurrences"`
	Snippet     string  `json:"snippet"`
}
