package course

// Progress is the snapshot of a student's work in one course the completion engine decides on.
type Progress struct {
	TotalLessons  int `db:"total_lessons"`
	ViewedLessons int `db:"viewed_lessons"` // distinct lessons of the course with viewed = true

	TotalAssignments     int `db:"total_assignments"`
	SubmittedAssignments int `db:"submitted_assignments"` // distinct assignments with at least one submission

	TotalQuizzes  int `db:"total_quizzes"`
	PassedQuizzes int `db:"passed_quizzes"`
}

// LessonsDone holds when every lesson has been viewed, or there are none.
func (p Progress) LessonsDone() bool {
	return p.TotalLessons == 0 || p.ViewedLessons == p.TotalLessons
}

// AssignmentsDone holds when every assignment has a submission, or there are none.
func (p Progress) AssignmentsDone() bool {
	return p.TotalAssignments == 0 || p.SubmittedAssignments == p.TotalAssignments
}

// QuizzesDone holds when at least one quiz of the course has been passed, or there are none.
func (p Progress) QuizzesDone() bool {
	return p.TotalQuizzes == 0 || p.PassedQuizzes > 0
}

// Complete is the course completion rule.
func (p Progress) Complete() bool {
	return p.LessonsDone() && p.AssignmentsDone() && p.QuizzesDone()
}
