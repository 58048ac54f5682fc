package course

// PassPercent is the minimum score, in percent of the quiz total, to pass a quiz.
const PassPercent = 70

type QuizScore struct {
	Score int
	Total int
}

// Passed compares in integers: 7/10 passes, 2/3 does not. An empty quiz never passes.
func (s QuizScore) Passed() bool {
	return s.Total > 0 && s.Score*100 >= PassPercent*s.Total
}

// ScoreQuiz counts the questions whose selected option matches the correct one.
// Unanswered questions count as wrong.
func ScoreQuiz(questions []Question, answers QuizAnswers) QuizScore {
	s := QuizScore{Total: len(questions)}
	for _, q := range questions {
		if selected, ok := answers[q.ID]; ok && selected == q.CorrectOption {
			s.Score++
		}
	}
	return s
}
