package course

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type Course struct {
	ID             string    `json:"id" db:"id"`
	Title          string    `json:"title" db:"title"`
	Description    string    `json:"description" db:"description"`
	InstructorID   string    `json:"instructor_id" db:"instructor_id"`
	InstructorName string    `json:"instructor_name" db:"instructor_name"` // read-only, joined
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

type Lesson struct {
	ID        string    `json:"id" db:"id"`
	CourseID  string    `json:"course_id" db:"course_id"`
	Title     string    `json:"title" db:"title"`
	VideoURL  string    `json:"video_url" db:"video_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Quiz struct {
	ID        string     `json:"id" db:"id"`
	CourseID  string     `json:"course_id" db:"course_id"`
	Title     string     `json:"title" db:"title"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	Questions []Question `json:"questions" db:"-"`
}

type Question struct {
	ID            string `json:"id" db:"id"`
	QuizID        string `json:"quiz_id" db:"quiz_id"`
	Position      int    `json:"position" db:"position"`
	Text          string `json:"text" db:"text"`
	Option1       string `json:"option1" db:"option1"`
	Option2       string `json:"option2" db:"option2"`
	Option3       string `json:"option3" db:"option3"`
	Option4       string `json:"option4" db:"option4"`
	CorrectOption int    `json:"-" db:"correct_option"` // 1 - 4
}

// Options returns the 4 options in display order; option N is at index N-1.
func (q Question) Options() []string {
	return []string{q.Option1, q.Option2, q.Option3, q.Option4}
}

// FormField is the name of the form field carrying the selected option.
func (q Question) FormField() string {
	return "question_" + q.ID
}

type Assignment struct {
	ID          string    `json:"id" db:"id"`
	CourseID    string    `json:"course_id" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Enrollment struct {
	ID          string    `json:"id" db:"id"`
	StudentID   string    `json:"student_id" db:"student_id"`
	CourseID    string    `json:"course_id" db:"course_id"`
	EnrolledAt  time.Time `json:"enrolled_at" db:"enrolled_at"`
	StudentName string    `json:"student_name" db:"student_name"` // read-only, joined
}

type LessonProgress struct {
	StudentID string    `json:"student_id" db:"student_id"`
	LessonID  string    `json:"lesson_id" db:"lesson_id"`
	Viewed    bool      `json:"viewed" db:"viewed"`
	ViewedAt  time.Time `json:"viewed_at" db:"viewed_at"`
}

type Submission struct {
	ID           string    `json:"id" db:"id"`
	AssignmentID string    `json:"assignment_id" db:"assignment_id"`
	StudentID    string    `json:"student_id" db:"student_id"`
	FilePath     string    `json:"file_path" db:"file_path"`
	FileName     string    `json:"file_name" db:"file_name"`
	SubmittedAt  time.Time `json:"submitted_at" db:"submitted_at"`
}

// QuizResult is the per (student, quiz) pass record.
// Passed is sticky: a later failing attempt does not clear it.
type QuizResult struct {
	StudentID string    `json:"student_id" db:"student_id"`
	QuizID    string    `json:"quiz_id" db:"quiz_id"`
	Score     int       `json:"score" db:"score"` // last attempt
	Total     int       `json:"total" db:"total"`
	BestScore int       `json:"best_score" db:"best_score"`
	Passed    bool      `json:"passed" db:"passed"`
	Attempts  int       `json:"attempts" db:"attempts"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// merge folds a new attempt into the result.
func (r QuizResult) merge(s QuizScore, now time.Time) QuizResult {
	r.Score = s.Score
	r.Total = s.Total
	if s.Score > r.BestScore || r.Attempts == 0 {
		r.BestScore = s.Score
	}
	r.Passed = r.Passed || s.Passed()
	r.Attempts++
	r.UpdatedAt = now
	return r
}

// BestPercent is the best score as a percentage of the quiz total.
func (r QuizResult) BestPercent() int {
	if r.Total == 0 {
		return 0
	}
	return r.BestScore * 100 / r.Total
}

type Certificate struct {
	ID          string    `json:"id" db:"id"`
	StudentID   string    `json:"student_id" db:"student_id"`
	CourseID    string    `json:"course_id" db:"course_id"`
	IsCompleted bool      `json:"is_completed" db:"is_completed"`
	IssuedAt    time.Time `json:"issued_at" db:"issued_at"`
	CompletedAt null.Time `json:"completed_at" db:"completed_at"`

	// read-only, joined
	StudentName    string `json:"student_name" db:"student_name"`
	StudentEmail   string `json:"student_email" db:"student_email"`
	CourseTitle    string `json:"course_title" db:"course_title"`
	InstructorName string `json:"instructor_name" db:"instructor_name"`
}

// IssueDate is the date printed on the document: completion date when known.
func (c Certificate) IssueDate() time.Time {
	if c.CompletedAt.Valid {
		return c.CompletedAt.Time
	}
	return c.IssuedAt
}

type (
	CourseFilter struct {
		InstructorID string
	}

	EnrollmentFilter struct {
		StudentID string
		CourseID  string
	}

	CertificateFilter struct {
		ID        string
		StudentID string
		CourseID  string
		Pending   bool // is_completed = false only
	}
)
