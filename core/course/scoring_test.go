package course

import (
	"testing"
	"time"

	"github.com/volatiletech/null/v8"
)

func questions(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{ID: string(rune('a' + i)), Position: i + 1, CorrectOption: i%4 + 1}
	}
	return qs
}

// answers answers the first `right` questions correctly and the rest wrong.
func answers(qs []Question, right int) QuizAnswers {
	a := make(QuizAnswers, len(qs))
	for i, q := range qs {
		if i < right {
			a[q.ID] = q.CorrectOption
		} else {
			a[q.ID] = q.CorrectOption%4 + 1
		}
	}
	return a
}

func TestScoreQuiz(t *testing.T) {
	tests := []struct {
		name       string
		questions  []Question
		answers    QuizAnswers
		wantScore  int
		wantPassed bool
	}{
		{name: "empty quiz", questions: nil, answers: nil, wantScore: 0, wantPassed: false},
		{name: "no answers", questions: questions(3), answers: nil, wantScore: 0, wantPassed: false},
		{name: "2/3", questions: questions(3), answers: answers(questions(3), 2), wantScore: 2, wantPassed: false},
		{name: "3/3", questions: questions(3), answers: answers(questions(3), 3), wantScore: 3, wantPassed: true},
		{name: "6/10", questions: questions(10), answers: answers(questions(10), 6), wantScore: 6, wantPassed: false},
		{name: "7/10", questions: questions(10), answers: answers(questions(10), 7), wantScore: 7, wantPassed: true},
		{name: "unknown question ignored", questions: questions(1), answers: QuizAnswers{"lol": 1}, wantScore: 0, wantPassed: false},
		{name: "unselected option", questions: questions(1), answers: QuizAnswers{"a": 0}, wantScore: 0, wantPassed: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreQuiz(tt.questions, tt.answers)
			if got.Score != tt.wantScore || got.Total != len(tt.questions) {
				t.Errorf("ScoreQuiz() = %d/%d, want %d/%d", got.Score, got.Total, tt.wantScore, len(tt.questions))
			}
			if got.Passed() != tt.wantPassed {
				t.Errorf("ScoreQuiz().Passed() = %v, want %v", got.Passed(), tt.wantPassed)
			}
		})
	}
}

func TestQuizResult_merge(t *testing.T) {
	now := time.Now().UTC()
	attempts := []QuizScore{{Score: 1, Total: 3}, {Score: 3, Total: 3}, {Score: 0, Total: 3}}

	res := QuizResult{StudentID: "s", QuizID: "q"}
	for _, s := range attempts {
		res = res.merge(s, now)
	}

	if res.Score != 0 || res.Total != 3 {
		t.Errorf("merge() last score = %d/%d, want 0/3", res.Score, res.Total)
	}
	if res.BestScore != 3 {
		t.Errorf("merge() best score = %d, want 3", res.BestScore)
	}
	if !res.Passed {
		t.Error("merge() lost the pass of an earlier attempt")
	}
	if res.Attempts != 3 {
		t.Errorf("merge() attempts = %d, want 3", res.Attempts)
	}
	if res.BestPercent() != 100 {
		t.Errorf("BestPercent() = %d, want 100", res.BestPercent())
	}
	if (QuizResult{}).BestPercent() != 0 {
		t.Error("BestPercent() of an empty result should be 0")
	}
}

func TestProgress_Complete(t *testing.T) {
	tests := []struct {
		name string
		prog Progress
		want bool
	}{
		{name: "empty course", prog: Progress{}, want: true},
		{name: "lessons missing", prog: Progress{TotalLessons: 2, ViewedLessons: 1}, want: false},
		{name: "lessons viewed", prog: Progress{TotalLessons: 2, ViewedLessons: 2}, want: true},
		{name: "assignment missing", prog: Progress{TotalAssignments: 2, SubmittedAssignments: 1}, want: false},
		{name: "no quiz passed", prog: Progress{TotalQuizzes: 2}, want: false},
		{name: "one of many quizzes passed", prog: Progress{TotalQuizzes: 3, PassedQuizzes: 1}, want: true},
		{
			name: "everything done",
			prog: Progress{TotalLessons: 1, ViewedLessons: 1, TotalAssignments: 1, SubmittedAssignments: 1, TotalQuizzes: 1, PassedQuizzes: 1},
			want: true,
		},
		{
			name: "quiz passed but lesson missing",
			prog: Progress{TotalLessons: 1, TotalQuizzes: 1, PassedQuizzes: 1},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.prog.Complete(); got != tt.want {
				t.Errorf("Complete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEmbedURL(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOk bool
	}{
		{raw: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "https://www.youtube.com/embed/dQw4w9WgXcQ", wantOk: true},
		{raw: "https://youtube.com/watch?v=dQw4w9WgXcQ&t=42", want: "https://www.youtube.com/embed/dQw4w9WgXcQ", wantOk: true},
		{raw: "http://youtu.be/abc_-1", want: "https://www.youtube.com/embed/abc_-1", wantOk: true},
		{raw: "youtu.be/abc", want: "https://www.youtube.com/embed/abc", wantOk: true},
		{raw: "https://vimeo.com/42", want: "https://vimeo.com/42", wantOk: false},
		{raw: "https://www.youtube.com/embed/abc", want: "https://www.youtube.com/embed/abc", wantOk: false},
		{raw: "", want: "", wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := EmbedURL(tt.raw)
			if got != tt.want || ok != tt.wantOk {
				t.Errorf("EmbedURL() = %q, %v, want %q, %v", got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestCertificate_IssueDate(t *testing.T) {
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	completed := issued.Add(48 * time.Hour)

	if got := (Certificate{IssuedAt: issued}).IssueDate(); !got.Equal(issued) {
		t.Errorf("IssueDate() of a pending certificate = %v, want %v", got, issued)
	}
	cert := Certificate{IssuedAt: issued, IsCompleted: true, CompletedAt: null.TimeFrom(completed)}
	if got := cert.IssueDate(); !got.Equal(completed) {
		t.Errorf("IssueDate() = %v, want %v", got, completed)
	}
}
