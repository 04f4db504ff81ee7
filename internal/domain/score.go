package domain

// QuestionSeconds is the per-question clock for challenge matches.
const QuestionSeconds = 15

// basePoints is awarded for any correct answer, before the speed bonus.
const basePoints = 10

// MaxPointsPerQuestion bounds what a single question can award.
const MaxPointsPerQuestion = basePoints + QuestionSeconds

// Award computes the points for one answered question: a correct answer is
// worth 10 plus one point per second left on the clock, an incorrect answer
// is worth nothing. timeLeft outside [0, QuestionSeconds] is clamped.
func Award(correct bool, timeLeft int) int {
	if !correct {
		return 0
	}
	if timeLeft < 0 {
		timeLeft = 0
	}
	if timeLeft > QuestionSeconds {
		timeLeft = QuestionSeconds
	}
	return basePoints + timeLeft
}

// ScoreAnswers totals a local answer grid against the question list. Entries
// are matched by position; nil entries are unanswered and score nothing.
func ScoreAnswers(questions []Question, answers []*PlayerAnswer) (score, correct int) {
	for i, ans := range answers {
		if ans == nil || i >= len(questions) {
			continue
		}
		if ans.Answer == questions[i].Correct {
			score += Award(true, ans.Time)
			correct++
		}
	}
	return score, correct
}
