// Package flashcards contains the original logic of this application:
// parsing model completions into question/answer pairs, and the cache that
// avoids repeat model calls for identical input.
package flashcards

import (
	"regexp"
	"strings"

	"github.com/sakif/flashcard-studio/internal/model"
)

// The completion is expected to loosely follow repeated blocks of
//
//	Question: <question text>
//	Answer: <answer text, possibly spanning lines>
//
// where each marker word may be followed by either ":" or ">". Matching is
// case-insensitive. An answer runs up to the next question marker that
// starts a line, or the end of the text.
var (
	// pairRe finds one question and the start of its answer. The question
	// capture is lazy, so it stops at the first answer marker.
	pairRe = regexp.MustCompile(`(?is)Question[:>]\s*(.+?)\s*Answer[:>]\s*`)
	// boundaryRe terminates an answer: a question marker at the start of a
	// new line. RE2 has no lookahead, so instead of asserting the boundary
	// inside one big pattern we search for it separately and slice.
	boundaryRe = regexp.MustCompile(`(?i)\nQuestion[:>]`)
)

// minPairLength filters degenerate matches: a pair is kept only when both
// the trimmed question and the trimmed answer are longer than this.
// The threshold is a heuristic carried over unchanged from the original
// extraction rule.
const minPairLength = 5

// Extract parses a completion into an ordered list of flashcards.
//
// Pairs are discovered left to right, non-overlapping; IDs are assigned
// 1..N in source order and stay contiguous after filtering. Extraction is
// pure — the same input always yields the same cards.
//
// An empty result is a valid return, not an error. The caller decides
// whether "no flashcards" is worth reporting to the user.
func Extract(completion string) []model.Flashcard {
	cards := []model.Flashcard{}

	pos := 0
	for pos < len(completion) {
		m := pairRe.FindStringSubmatchIndex(completion[pos:])
		if m == nil {
			break
		}

		question := completion[pos+m[2] : pos+m[3]]

		// The answer starts right after "Answer[:>]" and any whitespace,
		// and runs to the next line-starting question marker or the end.
		answerStart := pos + m[1]
		var answer string
		if b := boundaryRe.FindStringIndex(completion[answerStart:]); b != nil {
			answer = completion[answerStart : answerStart+b[0]]
			// Resume scanning at the newline so the next block's marker is
			// the next thing pairRe sees.
			pos = answerStart + b[0]
		} else {
			answer = completion[answerStart:]
			pos = len(completion)
		}

		question = strings.TrimSpace(question)
		answer = strings.TrimSpace(answer)

		if len(question) > minPairLength && len(answer) > minPairLength {
			cards = append(cards, model.Flashcard{
				ID:       len(cards) + 1,
				Question: question,
				Answer:   answer,
			})
		}
	}

	return cards
}
