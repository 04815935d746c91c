package model

// Flashcard is one question/answer pair extracted from a model completion.
//
// IDs are 1-based and scoped to a single extraction batch — card 1 of one
// submission has nothing to do with card 1 of another. Cards are immutable
// once extracted; their lifetime is bounded by the cache entry holding them.
type Flashcard struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
