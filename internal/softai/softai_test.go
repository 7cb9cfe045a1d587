package softai

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRng() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestGenerateEmptyText(t *testing.T) {
	content := Generate("", testRng())
	assert.Empty(t, content.Summary)
	assert.Empty(t, content.Quiz)
}

func TestGenerateWhitespaceOnly(t *testing.T) {
	content := Generate("   \n\t  ", testRng())
	assert.Empty(t, content.Summary)
	assert.Empty(t, content.Quiz)
}

func TestBuildSummarySkipsShortSentences(t *testing.T) {
	text := "Go is fun. The quick brown fox jumps over the lazy dog today. Short one. Concurrency is handled with goroutines and channels in Go."

	items := BuildSummary(text)
	require.Len(t, items, 2)
	assert.Equal(t, "The quick brown fox jumps over the lazy dog today", items[0].Short)
	assert.Contains(t, items[0].Detail, "The quick brown fox jumps over the lazy dog today")
}

func TestBuildSummaryTruncatesLongSentences(t *testing.T) {
	long := strings.Repeat("a", 120)

	items := BuildSummary(long)
	require.Len(t, items, 1)
	short := []rune(items[0].Short)
	assert.Len(t, short, 96)
	assert.Equal(t, "…", string(short[95]))
	assert.Contains(t, items[0].Detail, long)
}

func TestBuildSummaryCapsAtEight(t *testing.T) {
	text := strings.Repeat("This sentence is long enough to qualify for the summary. ", 12)
	items := BuildSummary(text)
	assert.Len(t, items, 8)
}

func TestBuildQuizAnswersAndOptions(t *testing.T) {
	text := "The gopher language provides excellent concurrency support for modern developers. Channels communicate between goroutines safely always."

	quiz := BuildQuiz(text, testRng())
	require.Len(t, quiz, 2)

	// Answer is the middle qualifying word of each sentence, punctuation
	// stripped.
	assert.Equal(t, "concurrency", quiz[0].Answer)
	assert.Equal(t, "goroutines", quiz[1].Answer)

	for _, q := range quiz {
		assert.Len(t, q.Options, 4)
		assert.Contains(t, q.Options, q.Answer)
		assert.True(t, strings.HasPrefix(q.Prompt, `Which term best fits: "`))
	}
}

func TestBuildQuizDeterministicForSeed(t *testing.T) {
	text := "The gopher language provides excellent concurrency support for modern developers. Channels communicate between goroutines safely always."

	a := Generate(text, rand.New(rand.NewSource(7)))
	b := Generate(text, rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}

func TestBuildQuizSkipsShortAnswers(t *testing.T) {
	// The only qualifying word strips down to two letters.
	text := "xx yy ab123 zz ww qq rr ss tt uu vv"
	quiz := BuildQuiz(text, testRng())
	assert.Empty(t, quiz)
}

func TestBuildQuizPadsDistractorsWithFillers(t *testing.T) {
	text := "Gopher gopher gopher gopher gopher gopher."

	quiz := BuildQuiz(text, testRng())
	require.Len(t, quiz, 1)
	assert.Equal(t, "gopher", quiz[0].Answer)
	assert.Contains(t, quiz[0].Options, "theory")
}

func TestQualifyingWords(t *testing.T) {
	words := qualifyingWords("the 12345 alpha beta gamma go")
	assert.Equal(t, []string{"alpha", "gamma"}, words)
}
