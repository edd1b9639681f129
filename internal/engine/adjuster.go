package engine

// promoteStreak is how many consecutive correct answers trigger a harder tier.
const promoteStreak = 2

// Adjust applies one answer outcome to the streak counters and difficulty.
// The promote check runs first; at most one tier change happens per step and
// the tier never leaves [easy, hard]. The returned streaks are mutually
// exclusive: at least one is always zero.
func Adjust(isCorrect bool, correctStreak, incorrectStreak int, current Difficulty) (int, int, Difficulty) {
	if isCorrect {
		correctStreak++
		incorrectStreak = 0
	} else {
		incorrectStreak++
		correctStreak = 0
	}

	if correctStreak >= promoteStreak && current < Hard {
		current++
		correctStreak = 0
	} else if incorrectStreak >= 1 && current > Easy {
		current--
		incorrectStreak = 0
	}

	return correctStreak, incorrectStreak, current
}
