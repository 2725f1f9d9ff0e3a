package baseball

import "fmt"

// Score rates a guess against the answer. A strike is a digit matching in
// value and position; a ball is a digit present elsewhere in the answer.
// Positions matched in the strike pass are consumed on both sides, and each
// ball consumes one answer occurrence, so repeated digits never score twice.
// answer and guess must have equal length.
func Score(answer, guess string) (strikes, balls int) {
	n := len(answer)
	answerUsed := make([]bool, n)
	guessUsed := make([]bool, n)

	for i := 0; i < n; i++ {
		if guess[i] == answer[i] {
			strikes++
			answerUsed[i] = true
			guessUsed[i] = true
		}
	}

	for i := 0; i < n; i++ {
		if guessUsed[i] {
			continue
		}
		for j := 0; j < n; j++ {
			if answerUsed[j] || guess[i] != answer[j] {
				continue
			}
			balls++
			answerUsed[j] = true
			break
		}
	}

	return strikes, balls
}

// FormatResult renders a guess result as a display line for the session log
func FormatResult(guess string, strikes, balls int) string {
	return fmt.Sprintf("%s: %dS %dB", guess, strikes, balls)
}
