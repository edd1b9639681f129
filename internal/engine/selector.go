package engine

import "math/rand"

// searchOrder builds the tier priority for question selection: the current
// tier first, then its immediate neighbors (easier before harder), then any
// tier not yet covered.
func searchOrder(current Difficulty) []Difficulty {
	order := make([]Difficulty, 0, numDifficulties)
	seen := [numDifficulties]bool{}
	add := func(d Difficulty) {
		if d.Valid() && !seen[d] {
			order = append(order, d)
			seen[d] = true
		}
	}
	add(current)
	add(current - 1)
	add(current + 1)
	for d := Easy; d <= Hard; d++ {
		add(d)
	}
	return order
}

// SelectQuestion picks the next unanswered question. Tiers are searched in
// strict priority order and the first tier with any candidate wins; within
// that tier the pick is uniformly random so attempts do not all see the same
// sequence. Returns ok=false when every tier is exhausted.
func SelectQuestion(pool Pool, current Difficulty, answered map[QuestionRef]bool) (Question, QuestionRef, bool) {
	for _, tier := range searchOrder(current) {
		var candidates []Question
		for _, q := range pool[tier] {
			if !answered[QuestionRef{Difficulty: tier, ID: q.ID}] {
				candidates = append(candidates, q)
			}
		}
		if len(candidates) > 0 {
			q := candidates[rand.Intn(len(candidates))]
			return q, QuestionRef{Difficulty: tier, ID: q.ID}, true
		}
	}
	return Question{}, QuestionRef{}, false
}
