package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjust(t *testing.T) {
	tests := []struct {
		name            string
		isCorrect       bool
		correctStreak   int
		incorrectStreak int
		difficulty      Difficulty
		wantCorrect     int
		wantIncorrect   int
		wantDifficulty  Difficulty
	}{
		{
			name:      "first correct answer only bumps the streak",
			isCorrect: true, difficulty: Medium,
			wantCorrect: 1, wantIncorrect: 0, wantDifficulty: Medium,
		},
		{
			name:      "second consecutive correct promotes and resets",
			isCorrect: true, correctStreak: 1, difficulty: Medium,
			wantCorrect: 0, wantIncorrect: 0, wantDifficulty: Hard,
		},
		{
			name:      "correct streak at hard does not promote past hard",
			isCorrect: true, correctStreak: 1, difficulty: Hard,
			wantCorrect: 2, wantIncorrect: 0, wantDifficulty: Hard,
		},
		{
			name:      "single incorrect demotes and resets",
			isCorrect: false, difficulty: Medium,
			wantCorrect: 0, wantIncorrect: 0, wantDifficulty: Easy,
		},
		{
			name:      "incorrect at easy keeps the streak, no demotion",
			isCorrect: false, incorrectStreak: 2, difficulty: Easy,
			wantCorrect: 0, wantIncorrect: 3, wantDifficulty: Easy,
		},
		{
			name:      "incorrect clears a correct streak",
			isCorrect: false, correctStreak: 1, difficulty: Hard,
			wantCorrect: 0, wantIncorrect: 0, wantDifficulty: Medium,
		},
		{
			name:      "correct clears an incorrect streak at easy",
			isCorrect: true, incorrectStreak: 3, difficulty: Easy,
			wantCorrect: 1, wantIncorrect: 0, wantDifficulty: Easy,
		},
		{
			name:      "promotion wins when both conditions could fire",
			isCorrect: true, correctStreak: 1, incorrectStreak: 0, difficulty: Easy,
			wantCorrect: 0, wantIncorrect: 0, wantDifficulty: Medium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, incorrect, difficulty := Adjust(tt.isCorrect, tt.correctStreak, tt.incorrectStreak, tt.difficulty)
			assert.Equal(t, tt.wantCorrect, correct)
			assert.Equal(t, tt.wantIncorrect, incorrect)
			assert.Equal(t, tt.wantDifficulty, difficulty)
		})
	}
}

func TestAdjustStreakExclusivity(t *testing.T) {
	// Random walk: one streak must be zero after every single adjustment.
	correct, incorrect := 0, 0
	difficulty := Medium
	for i := 0; i < 200; i++ {
		correct, incorrect, difficulty = Adjust(i%3 != 0, correct, incorrect, difficulty)
		assert.True(t, correct == 0 || incorrect == 0, "streaks both positive at step %d", i)
		assert.True(t, difficulty.Valid(), "difficulty escaped bounds at step %d", i)
	}
}
