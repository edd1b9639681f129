package engine

import "math"

// SkippedAnswer is the sentinel a client submits when a question timed out.
// It always grades as incorrect and is never a range error.
const SkippedAnswer = -1

// CountCorrect tallies answers matching their question's correct option.
// Iteration follows the answered order so the result is deterministic.
func CountCorrect(s State, pool Pool) int {
	correct := 0
	for _, ref := range s.Answered {
		idx, ok := s.Answers[ref]
		if !ok || idx == SkippedAnswer {
			continue
		}
		q, found := pool.Find(ref)
		if found && idx == q.CorrectOption {
			correct++
		}
	}
	return correct
}

// Score computes the percentage of correct answers over everything served.
// An attempt with nothing served scores zero.
func Score(s State, pool Pool) (correct, score int) {
	correct = CountCorrect(s, pool)
	if s.Served == 0 {
		return correct, 0
	}
	return correct, int(math.Round(float64(correct) / float64(s.Served) * 100))
}
