package engine

import "fmt"

// State is everything the engine tracks for one attempt. It is a plain value;
// persistence wraps it, the transition functions below never touch storage.
type State struct {
	Difficulty      Difficulty
	CorrectStreak   int
	IncorrectStreak int

	// Answers maps a served question to the submitted option index
	// (SkippedAnswer for timeouts). Answered preserves serving order.
	Answers  map[QuestionRef]int
	Answered []QuestionRef

	// LastRef is the question served but not yet answered, nil between
	// finalization and the next attempt (there is none).
	LastRef *QuestionRef
	Served  int

	Finished bool
}

// Outcome describes what a transition produced: either the next question or
// the final result.
type Outcome struct {
	Finished bool

	// Set when Finished is false.
	Question Question
	Ref      QuestionRef

	// Set when Finished is true.
	CorrectAnswers int
	Score          int
	Passed         bool
}

// NewState returns the zeroed state for a fresh attempt.
func NewState(start Difficulty) State {
	return State{
		Difficulty: start,
		Answers:    make(map[QuestionRef]int),
	}
}

func (s State) answeredSet() map[QuestionRef]bool {
	set := make(map[QuestionRef]bool, len(s.Answered))
	for _, ref := range s.Answered {
		set[ref] = true
	}
	return set
}

func (s State) clone() State {
	out := s
	out.Answers = make(map[QuestionRef]int, len(s.Answers))
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	out.Answered = append([]QuestionRef(nil), s.Answered...)
	if s.LastRef != nil {
		ref := *s.LastRef
		out.LastRef = &ref
	}
	return out
}

func finalize(s State, pool Pool, passingScore int) (State, Outcome) {
	correct, score := Score(s, pool)
	s.Finished = true
	s.LastRef = nil
	return s, Outcome{
		Finished:       true,
		CorrectAnswers: correct,
		Score:          score,
		Passed:         score >= passingScore,
	}
}

func serveNext(s State, pool Pool, passingScore int) (State, Outcome) {
	q, ref, ok := SelectQuestion(pool, s.Difficulty, s.answeredSet())
	if !ok {
		// Pool exhausted before the target length; grade what was answered.
		return finalize(s, pool, passingScore)
	}
	s.LastRef = &ref
	return s, Outcome{Question: q, Ref: ref}
}

// Begin serves the first question of an attempt, or re-serves the pending one
// so a resumed attempt sees the same question it left off on. A pool too
// small to serve anything finalizes immediately.
func Begin(s State, pool Pool, passingScore int) (State, Outcome, error) {
	if s.Finished {
		return s, Outcome{}, ErrAttemptFinished
	}
	s = s.clone()
	if s.LastRef != nil {
		if q, ok := pool.Find(*s.LastRef); ok {
			return s, Outcome{Question: q, Ref: *s.LastRef}, nil
		}
	}
	next, out := serveNext(s, pool, passingScore)
	return next, out, nil
}

// Step validates and applies one answer submission. Every check runs before
// any mutation, so a rejected step leaves the state exactly as it was.
func Step(s State, pool Pool, passingScore int, ref QuestionRef, answerIndex int) (State, Outcome, error) {
	if s.Finished {
		return s, Outcome{}, ErrAttemptFinished
	}
	if s.LastRef == nil || *s.LastRef != ref {
		return s, Outcome{}, validationErr(fmt.Sprintf("question %s was not the last question served", ref))
	}
	if s.answeredSet()[ref] {
		return s, Outcome{}, validationErr(fmt.Sprintf("question %s was already answered", ref))
	}
	q, ok := pool.Find(ref)
	if !ok {
		return s, Outcome{}, validationErr(fmt.Sprintf("question %s does not exist", ref))
	}
	if answerIndex != SkippedAnswer && (answerIndex < 0 || answerIndex >= len(q.Options)) {
		return s, Outcome{}, validationErr(fmt.Sprintf("answer index %d out of range for question %s", answerIndex, ref))
	}

	s = s.clone()
	isCorrect := answerIndex != SkippedAnswer && answerIndex == q.CorrectOption

	s.Answers[ref] = answerIndex
	s.Answered = append(s.Answered, ref)
	s.Served++
	s.LastRef = nil

	s.CorrectStreak, s.IncorrectStreak, s.Difficulty = Adjust(isCorrect, s.CorrectStreak, s.IncorrectStreak, s.Difficulty)

	if s.Served >= TargetQuizLength {
		next, out := finalize(s, pool, passingScore)
		return next, out, nil
	}
	next, out := serveNext(s, pool, passingScore)
	return next, out, nil
}
