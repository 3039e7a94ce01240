package retrieval

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jonathan/copydesk/internal/types"
)

// Searcher is the retrieval contract the orchestrator consumes. Implementors
// return ranked snippets deduplicated by source path.
type Searcher interface {
	Search(query string, k int) []types.Snippet
}

// snippetMaxLen bounds how much of a matching passage goes into the prompt.
const snippetMaxLen = 300

type scoredHit struct {
	path        string
	title       string
	score       float64
	occurrences int
	snippet     string
}

// Search ranks content passages against the query and returns the top k,
// one result per source path: the best-scoring passage is kept, with the
// total number of matching passages recorded as Occurrences.
func (idx *ContentIndex) Search(query string, k int) []types.Snippet {
	terms := tokenize(query)
	if len(terms) == 0 || k <= 0 {
		return nil
	}

	best := make(map[string]*scoredHit)
	for _, doc := range idx.docs {
		for _, passage := range splitPassages(doc.Text) {
			score := scorePassage(passage, terms)
			if score == 0 {
				continue
			}

			hit, ok := best[doc.Path]
			if !ok {
				best[doc.Path] = &scoredHit{
					path:        doc.Path,
					title:       doc.Title,
					score:       score,
					occurrences: 1,
					snippet:     truncate(passage, snippetMaxLen),
				}
				continue
			}

			hit.occurrences++
			if score > hit.score {
				hit.score = score
				hit.snippet = truncate(passage, snippetMaxLen)
			}
		}
	}

	hits := make([]scoredHit, 0, len(best))
	for _, hit := range best {
		hits = append(hits, *hit)
	}
	sortSnippetsDeterministic(hits)

	if len(hits) > k {
		hits = hits[:k]
	}

	snippets := make([]types.Snippet, len(hits))
	for i, hit := range hits {
		snippets[i] = types.Snippet{
			Path:        hit.path,
			Title:       hit.title,
			Score:       hit.score,
			Occurrences: hit.occurrences,
			Snippet:     hit.snippet,
		}
	}
	return snippets
}

// scorePassage counts distinct matched terms (weighted) plus total term
// occurrences, so passages covering more of the query rank first.
func scorePassage(passage string, terms []string) float64 {
	lowered := strings.ToLower(passage)

	distinct := 0
	occurrences := 0
	for _, term := range terms {
		count := strings.Count(lowered, term)
		if count > 0 {
			distinct++
			occurrences += count
		}
	}
	if distinct == 0 {
		return 0
	}
	return float64(distinct) + 0.1*float64(occurrences)
}

// tokenize lowercases the query and keeps tokens with at least one letter or
// digit, dropping very short noise words.
func tokenize(query string) []string {
	raw := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool)
	var terms []string
	for _, token := range raw {
		if len(token) < 3 || seen[token] {
			continue
		}
		seen[token] = true
		terms = append(terms, token)
	}
	return terms
}

// splitPassages breaks document text into scoring units by blank-line or
// newline boundaries.
func splitPassages(text string) []string {
	var passages []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			passages = append(passages, trimmed)
		}
	}
	return passages
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// FormatGrounding renders snippets as a prompt section, highest score first.
func FormatGrounding(snippets []types.Snippet) string {
	if len(snippets) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, snippet := range snippets {
		title := snippet.Title
		if title == "" {
			title = snippet.Path
		}
		sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, title, snippet.Snippet))
	}
	return sb.String()
}
