// Package softai is the deterministic, non-learned study-content extractor:
// a pure function of the latest uploaded document's text that produces a
// short summary and a fill-the-blank quiz. No model, no persisted state.
package softai

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

const (
	maxSummaryItems = 8
	maxQuestions    = 5
	shortFormLimit  = 95
	promptQuoteLen  = 65

	minSentenceLen     = 20 // summary candidates
	minQuizSentenceLen = 25
	minWordLen         = 5 // qualifying words are longer than 4 chars
	minAnswerLen       = 3
	distractorCount    = 3
)

// fillers pad the distractor pool when the document is too small.
var fillers = []string{"concept", "method", "theory", "process"}

var (
	sentenceSplit = regexp.MustCompile(`[.!?]\s+`)
	wordSplit     = regexp.MustCompile(`\s+`)
	nonAlpha      = regexp.MustCompile(`[^a-zA-Z]`)
	alphaLeading  = regexp.MustCompile(`^[a-zA-Z]`)
)

type SummaryItem struct {
	Short  string `json:"short"`
	Detail string `json:"detail"`
}

type Question struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// Content is the generated result. Empty slices mean the document had no
// usable text for that part; that is an explicit outcome, not a failure.
type Content struct {
	Summary []SummaryItem `json:"summary"`
	Quiz    []Question    `json:"quiz"`
}

// Generate runs both extractions over the document text. Option order is
// drawn from rng so quiz layouts are reproducible under test.
func Generate(text string, rng *rand.Rand) Content {
	return Content{
		Summary: BuildSummary(text),
		Quiz:    BuildQuiz(text, rng),
	}
}

// BuildSummary keeps the first 8 sentences longer than 20 characters, in
// original order. Each yields a short form truncated at 95 characters and a
// templated expansion restating the full sentence.
func BuildSummary(text string) []SummaryItem {
	items := []SummaryItem{}
	for _, raw := range sentenceSplit.Split(text, -1) {
		s := strings.TrimSpace(raw)
		if len([]rune(s)) <= minSentenceLen {
			continue
		}
		items = append(items, SummaryItem{
			Short: truncate(s, shortFormLimit),
			Detail: fmt.Sprintf("This concept covers: %q. Understanding this principle is "+
				"foundational to mastering the overall topic and applying it in practical scenarios.", s),
		})
		if len(items) == maxSummaryItems {
			break
		}
	}
	return items
}

// BuildQuiz builds up to 5 fill-the-blank questions. For each candidate
// sentence the correct answer is the qualifying word at the middle index of
// that sentence's own word list; distractors come from a deduplicated global
// word pool sliced per question, padded with fillers when exhausted.
func BuildQuiz(text string, rng *rand.Rand) []Question {
	pool := qualifyingWords(text)
	var sentences []string
	for _, s := range sentenceSplit.Split(text, -1) {
		if len([]rune(s)) > minQuizSentenceLen {
			sentences = append(sentences, s)
		}
	}

	questions := []Question{}
	for i := 0; i < len(sentences) && i < maxQuestions; i++ {
		s := sentences[i]
		sw := qualifyingWords(s)
		if len(sw) == 0 {
			continue
		}
		answer := nonAlpha.ReplaceAllString(sw[len(sw)/2], "")
		if len(answer) < minAnswerLen {
			continue
		}

		wrongs := distractors(pool, answer, i)
		options := append([]string{answer}, wrongs...)
		rng.Shuffle(len(options), func(a, b int) {
			options[a], options[b] = options[b], options[a]
		})

		questions = append(questions, Question{
			Prompt:  fmt.Sprintf("Which term best fits: \"%s…\"?", truncateRaw(s, promptQuoteLen)),
			Options: options,
			Answer:  answer,
		})
	}
	return questions
}

// distractors slices the deduplicated pool starting at questionIndex*4 and
// pads with the fixed filler sequence when the pool runs out.
func distractors(pool []string, answer string, questionIndex int) []string {
	seen := map[string]struct{}{}
	var candidates []string
	for _, w := range pool {
		if w == answer || len([]rune(w)) <= 3 {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		candidates = append(candidates, w)
	}

	start := questionIndex * 4
	var wrongs []string
	for j := start; j < start+distractorCount && j < len(candidates); j++ {
		wrongs = append(wrongs, candidates[j])
	}
	for len(wrongs) < distractorCount {
		wrongs = append(wrongs, fillers[len(wrongs)])
	}
	return wrongs
}

// qualifyingWords tokenizes words that lead with a letter and are longer
// than 4 characters.
func qualifyingWords(text string) []string {
	var out []string
	for _, w := range wordSplit.Split(text, -1) {
		if len([]rune(w)) >= minWordLen && alphaLeading.MatchString(w) {
			out = append(out, w)
		}
	}
	return out
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "…"
}

func truncateRaw(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
