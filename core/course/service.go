package course

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/user"
)

var (
	// errors
	ErrNotFound           = errors.New("not found")
	ErrAlreadyEnrolled    = errors.New("You are already enrolled in this course.")
	ErrCertificatePending = errors.New("Course not completed yet.")
	ErrCertificateMissing = errors.New("certificate missing for enrollment")
	ErrNoFile             = errors.New("Please upload a file.")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		QueryCourses(ctx context.Context, filter CourseFilter) ([]Course, error)
		GetCourse(ctx context.Context, id string) (Course, error)

		CreateLesson(ctx context.Context, lsn Lesson) (Lesson, error)
		QueryLessons(ctx context.Context, courseID string) ([]Lesson, error)
		GetLesson(ctx context.Context, courseID, id string) (Lesson, error)
		// MarkLessonViewed upserts the (student, lesson) progress row with viewed = true.
		MarkLessonViewed(ctx context.Context, studentID, lessonID string, at time.Time) error

		// CreateQuiz inserts the Quiz and its Questions atomically.
		CreateQuiz(ctx context.Context, qz Quiz) (Quiz, error)
		QueryQuizzes(ctx context.Context, courseID string) ([]Quiz, error)
		// GetQuiz returns the Quiz with its Questions ordered by position.
		GetQuiz(ctx context.Context, courseID, id string) (Quiz, error)
		GetQuizResult(ctx context.Context, studentID, quizID string) (QuizResult, error)
		SaveQuizResult(ctx context.Context, res QuizResult) error
		QueryQuizResults(ctx context.Context, studentID, courseID string) ([]QuizResult, error)

		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		QueryAssignments(ctx context.Context, courseID string) ([]Assignment, error)
		GetAssignment(ctx context.Context, courseID, id string) (Assignment, error)
		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)

		// CreateEnrollment inserts the Enrollment and its Certificate atomically.
		// Returns ErrAlreadyEnrolled if the pair exists.
		CreateEnrollment(ctx context.Context, enr Enrollment, cert Certificate) (Enrollment, error)
		GetEnrollment(ctx context.Context, studentID, courseID string) (Enrollment, error)
		QueryEnrollments(ctx context.Context, filter EnrollmentFilter) ([]Enrollment, error)

		GetProgress(ctx context.Context, studentID, courseID string) (Progress, error)

		GetCertificate(ctx context.Context, filter CertificateFilter) (Certificate, error)
		QueryCertificates(ctx context.Context, filter CertificateFilter) ([]Certificate, error)
		// CompleteCertificate flips a pending certificate. completed is false if it already was.
		CompleteCertificate(ctx context.Context, id string, at time.Time) (completed bool, err error)
	}

	// FileStore persists uploaded files and returns their storage path.
	FileStore interface {
		Save(ctx context.Context, dir, filename string, content io.Reader) (string, error)
		Remove(path string) error
	}

	// CertificateRenderer produces the printable certificate document.
	CertificateRenderer interface {
		Render(cert Certificate) ([]byte, error)
	}

	Service struct {
		repo     Repository
		files    FileStore
		renderer CertificateRenderer
		mailSvc  core.EmailService
		logger   core.Logger
		now      func() time.Time
	}
)

func NewService(
	repo Repository,
	files FileStore,
	renderer CertificateRenderer,
	mailSvc core.EmailService,
	logger core.Logger,
) *Service {
	return &Service{
		repo:     repo,
		files:    files,
		renderer: renderer,
		mailSvc:  mailSvc,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Catalog

func (svc *Service) CreateCourse(ctx context.Context, p user.Principal, nc NewCourse) (Course, error) {
	if err := svc.AuthorizeCourseCreation(p); err != nil {
		return Course{}, err
	}
	return svc.repo.CreateCourse(ctx, Course{
		Title:        nc.Title,
		Description:  nc.Description,
		InstructorID: p.ID,
		CreatedAt:    svc.now(),
	})
}

func (svc *Service) GetCourse(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourse(ctx, id)
}

type CourseList struct {
	Courses      []Course
	EnrolledIDs  map[string]bool
	IsInstructor bool
}

func (cl CourseList) IsEnrolled(courseID string) bool { return cl.EnrolledIDs[courseID] }

// ListCourses returns every course, marking those p is enrolled in.
func (svc *Service) ListCourses(ctx context.Context, p user.Principal) (CourseList, error) {
	courses, err := svc.repo.QueryCourses(ctx, CourseFilter{})
	if err != nil {
		return CourseList{}, pkgerrors.Wrap(err, "querying courses")
	}
	list := CourseList{Courses: courses, EnrolledIDs: make(map[string]bool), IsInstructor: p.IsInstructor()}
	if p.IsStudent() {
		enrollments, err := svc.repo.QueryEnrollments(ctx, EnrollmentFilter{StudentID: p.ID})
		if err != nil {
			return CourseList{}, pkgerrors.Wrap(err, "querying enrollments")
		}
		for _, enr := range enrollments {
			list.EnrolledIDs[enr.CourseID] = true
		}
	}
	return list, nil
}

func (svc *Service) CreateLesson(ctx context.Context, p user.Principal, courseID string, nl NewLesson) (Lesson, error) {
	if _, err := svc.AuthoringCourse(ctx, p, courseID, AuthorLesson); err != nil {
		return Lesson{}, err
	}
	return svc.repo.CreateLesson(ctx, Lesson{
		CourseID:  courseID,
		Title:     nl.Title,
		VideoURL:  nl.VideoURL,
		CreatedAt: svc.now(),
	})
}

func (svc *Service) CreateQuiz(ctx context.Context, p user.Principal, courseID string, nq NewQuiz) (Quiz, error) {
	if _, err := svc.AuthoringCourse(ctx, p, courseID, AuthorQuiz); err != nil {
		return Quiz{}, err
	}
	if len(nq.Questions) == 0 {
		return Quiz{}, questionsError("a quiz needs at least one question")
	}
	for _, q := range nq.Questions {
		if len(q.Options) != 4 {
			return Quiz{}, questionsError("each question needs 4 options")
		}
	}

	qz := Quiz{
		CourseID:  courseID,
		Title:     nq.Title,
		CreatedAt: svc.now(),
		Questions: make([]Question, 0, len(nq.Questions)),
	}
	for i, q := range nq.Questions {
		qz.Questions = append(qz.Questions, Question{
			Position:      i + 1,
			Text:          q.Text,
			Option1:       q.Options[0],
			Option2:       q.Options[1],
			Option3:       q.Options[2],
			Option4:       q.Options[3],
			CorrectOption: q.CorrectOption,
		})
	}
	return svc.repo.CreateQuiz(ctx, qz)
}

func questionsError(msg string) error {
	return core.NewValidationError(errors.New(msg), core.FieldError{Field: "questions", Error: msg})
}

func (svc *Service) CreateAssignment(ctx context.Context, p user.Principal, courseID string, na NewAssignment) (Assignment, error) {
	if _, err := svc.AuthoringCourse(ctx, p, courseID, AuthorAssignment); err != nil {
		return Assignment{}, err
	}
	return svc.repo.CreateAssignment(ctx, Assignment{
		CourseID:    courseID,
		Title:       na.Title,
		Description: na.Description,
		CreatedAt:   svc.now(),
	})
}

// Enrollment

// Enroll links student p to the course and creates the pending certificate with it.
func (svc *Service) Enroll(ctx context.Context, p user.Principal, courseID string) (Course, error) {
	crs, err := svc.repo.GetCourse(ctx, courseID)
	if err != nil {
		return Course{}, err
	}
	if !p.IsStudent() {
		return Course{}, core.NewPermissionError(msgEnrollDenied)
	}

	if _, err = svc.repo.GetEnrollment(ctx, p.ID, courseID); err == nil {
		return crs, ErrAlreadyEnrolled
	} else if err != ErrNotFound {
		return Course{}, pkgerrors.Wrap(err, "getting enrollment")
	}

	now := svc.now()
	enr := Enrollment{StudentID: p.ID, CourseID: courseID, EnrolledAt: now}
	cert := Certificate{StudentID: p.ID, CourseID: courseID, IssuedAt: now}
	if _, err = svc.repo.CreateEnrollment(ctx, enr, cert); err != nil {
		if err == ErrAlreadyEnrolled {
			return crs, err
		}
		return Course{}, pkgerrors.Wrap(err, "creating enrollment")
	}

	// a course without content is complete right away
	if _, err = svc.RefreshCertificate(ctx, p.ID, courseID); err != nil {
		return Course{}, pkgerrors.Wrap(err, "refreshing certificate")
	}
	return crs, nil
}

// Progress

type LessonView struct {
	Course     Course
	Lesson     Lesson
	EmbedURL   string
	Embeddable bool
	Preview    bool // viewed by the course instructor, no progress recorded
}

// ViewLesson returns the lesson and, for students, records it as viewed.
func (svc *Service) ViewLesson(ctx context.Context, p user.Principal, courseID, lessonID string) (LessonView, error) {
	crs, preview, err := svc.StudyingCourse(ctx, p, courseID, ViewLessons)
	if err != nil {
		return LessonView{}, err
	}
	lsn, err := svc.repo.GetLesson(ctx, courseID, lessonID)
	if err != nil {
		return LessonView{}, err
	}

	if !preview {
		if err = svc.repo.MarkLessonViewed(ctx, p.ID, lsn.ID, svc.now()); err != nil {
			return LessonView{}, pkgerrors.Wrap(err, "marking lesson viewed")
		}
		if _, err = svc.RefreshCertificate(ctx, p.ID, courseID); err != nil {
			return LessonView{}, pkgerrors.Wrap(err, "refreshing certificate")
		}
	}

	embed, ok := EmbedURL(lsn.VideoURL)
	return LessonView{Course: crs, Lesson: lsn, EmbedURL: embed, Embeddable: ok, Preview: preview}, nil
}

// GetQuizToTake returns the quiz, with its questions, if p may take it.
func (svc *Service) GetQuizToTake(ctx context.Context, p user.Principal, courseID, quizID string) (Course, Quiz, error) {
	crs, _, err := svc.StudyingCourse(ctx, p, courseID, TakeQuizzes)
	if err != nil {
		return Course{}, Quiz{}, err
	}
	qz, err := svc.repo.GetQuiz(ctx, courseID, quizID)
	if err != nil {
		return Course{}, Quiz{}, err
	}
	return crs, qz, nil
}

type QuizOutcome struct {
	Quiz        Quiz
	Score       QuizScore
	Result      QuizResult
	Certificate Certificate
}

// TakeQuiz scores the answers, records the attempt and re-evaluates course completion.
func (svc *Service) TakeQuiz(ctx context.Context, p user.Principal, courseID, quizID string, answers QuizAnswers) (QuizOutcome, error) {
	_, qz, err := svc.GetQuizToTake(ctx, p, courseID, quizID)
	if err != nil {
		return QuizOutcome{}, err
	}
	score := ScoreQuiz(qz.Questions, answers)

	res, err := svc.repo.GetQuizResult(ctx, p.ID, qz.ID)
	if err != nil {
		if err != ErrNotFound {
			return QuizOutcome{}, pkgerrors.Wrap(err, "getting quiz result")
		}
		res = QuizResult{StudentID: p.ID, QuizID: qz.ID}
	}
	res = res.merge(score, svc.now())
	if err = svc.repo.SaveQuizResult(ctx, res); err != nil {
		return QuizOutcome{}, pkgerrors.Wrap(err, "saving quiz result")
	}

	cert, err := svc.RefreshCertificate(ctx, p.ID, courseID)
	if err != nil {
		return QuizOutcome{}, pkgerrors.Wrap(err, "refreshing certificate")
	}
	return QuizOutcome{Quiz: qz, Score: score, Result: res, Certificate: cert}, nil
}

// GetAssignmentToSubmit returns the assignment if p may submit work for it.
func (svc *Service) GetAssignmentToSubmit(ctx context.Context, p user.Principal, courseID, assignmentID string) (Course, Assignment, error) {
	crs, _, err := svc.StudyingCourse(ctx, p, courseID, SubmitAssignments)
	if err != nil {
		return Course{}, Assignment{}, err
	}
	asg, err := svc.repo.GetAssignment(ctx, courseID, assignmentID)
	if err != nil {
		return Course{}, Assignment{}, err
	}
	return crs, asg, nil
}

// SubmitAssignment stores the uploaded file, records the submission and re-evaluates course completion.
func (svc *Service) SubmitAssignment(ctx context.Context, p user.Principal, courseID, assignmentID string, up *Upload) (Submission, error) {
	_, asg, err := svc.GetAssignmentToSubmit(ctx, p, courseID, assignmentID)
	if err != nil {
		return Submission{}, err
	}
	if up == nil || up.Content == nil || up.Filename == "" {
		return Submission{}, core.NewValidationError(ErrNoFile, core.FieldError{Field: "file", Error: ErrNoFile.Error()})
	}

	path, err := svc.files.Save(ctx, "submissions/"+asg.ID, up.Filename, up.Content)
	if err != nil {
		return Submission{}, pkgerrors.Wrap(err, "saving uploaded file")
	}
	sub, err := svc.repo.CreateSubmission(ctx, Submission{
		AssignmentID: asg.ID,
		StudentID:    p.ID,
		FilePath:     path,
		FileName:     up.Filename,
		SubmittedAt:  svc.now(),
	})
	if err != nil {
		if rmErr := svc.files.Remove(path); rmErr != nil {
			svc.logger.Error(fmt.Sprintf("removing orphan upload %s: %v", path, rmErr), rmErr)
		}
		return Submission{}, pkgerrors.Wrap(err, "creating submission")
	}

	if _, err = svc.RefreshCertificate(ctx, p.ID, courseID); err != nil {
		return Submission{}, pkgerrors.Wrap(err, "refreshing certificate")
	}
	return sub, nil
}
