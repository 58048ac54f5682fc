package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/course"
)

const (
	courseSelect = `
		SELECT c.id, c.title, c.description, c.instructor_id, u.username AS instructor_name, c.created_at
		FROM courses c
		JOIN users u ON u.id = c.instructor_id`

	certificateSelect = `
		SELECT ce.id, ce.student_id, ce.course_id, ce.is_completed, ce.issued_at, ce.completed_at,
			s.username AS student_name, s.email AS student_email,
			c.title AS course_title, i.username AS instructor_name
		FROM certificates ce
		JOIN users s ON s.id = ce.student_id
		JOIN courses c ON c.id = ce.course_id
		JOIN users i ON i.id = c.instructor_id`

	progressSelect = `
		SELECT
			(SELECT COUNT(*) FROM lessons WHERE course_id = ?) AS total_lessons,
			(SELECT COUNT(DISTINCT lp.lesson_id)
				FROM lesson_progress lp
				JOIN lessons l ON l.id = lp.lesson_id
				WHERE l.course_id = ? AND lp.student_id = ? AND lp.viewed = TRUE) AS viewed_lessons,
			(SELECT COUNT(*) FROM assignments WHERE course_id = ?) AS total_assignments,
			(SELECT COUNT(DISTINCT s.assignment_id)
				FROM submissions s
				JOIN assignments a ON a.id = s.assignment_id
				WHERE a.course_id = ? AND s.student_id = ?) AS submitted_assignments,
			(SELECT COUNT(*) FROM quizzes WHERE course_id = ?) AS total_quizzes,
			(SELECT COUNT(*)
				FROM quiz_results r
				JOIN quizzes q ON q.id = r.quiz_id
				WHERE q.course_id = ? AND r.student_id = ? AND r.passed = TRUE) AS passed_quizzes`
)

type courseRepository struct {
	baseRepository
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db core.DB) *courseRepository {
	return &courseRepository{baseRepository{db: db}}
}

// Catalog

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	crs.ID = uuid.New().String()
	crs.CreatedAt = crs.CreatedAt.UTC()

	q := repo.db.Rebind("INSERT INTO courses (id, title, description, instructor_id, created_at) VALUES (?, ?, ?, ?, ?)")
	if _, err := repo.db.ExecContext(ctx, q, crs.ID, crs.Title, crs.Description, crs.InstructorID, crs.CreatedAt); err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return repo.GetCourse(ctx, crs.ID)
}

func (repo courseRepository) QueryCourses(ctx context.Context, filter course.CourseFilter) ([]course.Course, error) {
	q := courseSelect
	var args []interface{}
	if filter.InstructorID != "" {
		q += " WHERE c.instructor_id = ?"
		args = append(args, filter.InstructorID)
	}
	q += " ORDER BY c.created_at, c.id"

	courses := make([]course.Course, 0)
	if err := repo.db.SelectContext(ctx, &courses, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "selecting courses")
	}
	return courses, nil
}

func (repo courseRepository) GetCourse(ctx context.Context, id string) (course.Course, error) {
	var crs course.Course
	q := repo.db.Rebind(courseSelect + " WHERE c.id = ?")
	if err := repo.db.GetContext(ctx, &crs, q, id); err != nil {
		return course.Course{}, trapNoRowsErr(err, course.ErrNotFound, "getting course")
	}
	return crs, nil
}

func (repo courseRepository) CreateLesson(ctx context.Context, lsn course.Lesson) (course.Lesson, error) {
	lsn.ID = uuid.New().String()
	lsn.CreatedAt = lsn.CreatedAt.UTC()

	q := repo.db.Rebind("INSERT INTO lessons (id, course_id, title, video_url, created_at) VALUES (?, ?, ?, ?, ?)")
	if _, err := repo.db.ExecContext(ctx, q, lsn.ID, lsn.CourseID, lsn.Title, lsn.VideoURL, lsn.CreatedAt); err != nil {
		return course.Lesson{}, errors.Wrap(err, "inserting lesson")
	}
	return lsn, nil
}

func (repo courseRepository) QueryLessons(ctx context.Context, courseID string) ([]course.Lesson, error) {
	lessons := make([]course.Lesson, 0)
	q := repo.db.Rebind(`
		SELECT id, course_id, title, video_url, created_at
		FROM lessons WHERE course_id = ? ORDER BY created_at, id`)
	if err := repo.db.SelectContext(ctx, &lessons, q, courseID); err != nil {
		return nil, errors.Wrap(err, "selecting lessons")
	}
	return lessons, nil
}

func (repo courseRepository) GetLesson(ctx context.Context, courseID, id string) (course.Lesson, error) {
	var lsn course.Lesson
	q := repo.db.Rebind(`
		SELECT id, course_id, title, video_url, created_at
		FROM lessons WHERE id = ? AND course_id = ?`)
	if err := repo.db.GetContext(ctx, &lsn, q, id, courseID); err != nil {
		return course.Lesson{}, trapNoRowsErr(err, course.ErrNotFound, "getting lesson")
	}
	return lsn, nil
}

func (repo courseRepository) MarkLessonViewed(ctx context.Context, studentID, lessonID string, at time.Time) error {
	q := repo.db.Rebind(`
		INSERT INTO lesson_progress (student_id, lesson_id, viewed, viewed_at)
		VALUES (?, ?, TRUE, ?)
		ON CONFLICT (student_id, lesson_id) DO UPDATE SET viewed = TRUE`)
	if _, err := repo.db.ExecContext(ctx, q, studentID, lessonID, at.UTC()); err != nil {
		return errors.Wrap(err, "upserting lesson progress")
	}
	return nil
}

func (repo courseRepository) CreateQuiz(ctx context.Context, qz course.Quiz) (course.Quiz, error) {
	qz.ID = uuid.New().String()
	qz.CreatedAt = qz.CreatedAt.UTC()

	err := repo.withTx(ctx, nil, func(ex core.DBExecutor) error {
		q := ex.Rebind("INSERT INTO quizzes (id, course_id, title, created_at) VALUES (?, ?, ?, ?)")
		if _, err := ex.ExecContext(ctx, q, qz.ID, qz.CourseID, qz.Title, qz.CreatedAt); err != nil {
			return errors.Wrap(err, "inserting quiz")
		}

		q = ex.Rebind(`
			INSERT INTO questions (id, quiz_id, position, text, option1, option2, option3, option4, correct_option)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		for i := range qz.Questions {
			qst := &qz.Questions[i]
			qst.ID = uuid.New().String()
			qst.QuizID = qz.ID
			_, err := ex.ExecContext(ctx, q,
				qst.ID, qst.QuizID, qst.Position, qst.Text,
				qst.Option1, qst.Option2, qst.Option3, qst.Option4, qst.CorrectOption)
			if err != nil {
				return errors.Wrap(err, "inserting question")
			}
		}
		return nil
	})
	if err != nil {
		return course.Quiz{}, err
	}
	return qz, nil
}

func (repo courseRepository) QueryQuizzes(ctx context.Context, courseID string) ([]course.Quiz, error) {
	quizzes := make([]course.Quiz, 0)
	q := repo.db.Rebind("SELECT id, course_id, title, created_at FROM quizzes WHERE course_id = ? ORDER BY created_at, id")
	if err := repo.db.SelectContext(ctx, &quizzes, q, courseID); err != nil {
		return nil, errors.Wrap(err, "selecting quizzes")
	}
	return quizzes, nil
}

func (repo courseRepository) GetQuiz(ctx context.Context, courseID, id string) (course.Quiz, error) {
	var qz course.Quiz
	q := repo.db.Rebind("SELECT id, course_id, title, created_at FROM quizzes WHERE id = ? AND course_id = ?")
	if err := repo.db.GetContext(ctx, &qz, q, id, courseID); err != nil {
		return course.Quiz{}, trapNoRowsErr(err, course.ErrNotFound, "getting quiz")
	}

	qz.Questions = make([]course.Question, 0)
	q = repo.db.Rebind(`
		SELECT id, quiz_id, position, text, option1, option2, option3, option4, correct_option
		FROM questions WHERE quiz_id = ? ORDER BY position`)
	if err := repo.db.SelectContext(ctx, &qz.Questions, q, qz.ID); err != nil {
		return course.Quiz{}, errors.Wrap(err, "selecting questions")
	}
	return qz, nil
}

// Progress

func (repo courseRepository) GetQuizResult(ctx context.Context, studentID, quizID string) (course.QuizResult, error) {
	var res course.QuizResult
	q := repo.db.Rebind(`
		SELECT student_id, quiz_id, score, total, best_score, passed, attempts, updated_at
		FROM quiz_results WHERE student_id = ? AND quiz_id = ?`)
	if err := repo.db.GetContext(ctx, &res, q, studentID, quizID); err != nil {
		return course.QuizResult{}, trapNoRowsErr(err, course.ErrNotFound, "getting quiz result")
	}
	return res, nil
}

// SaveQuizResult upserts the result. On conflict best_score & passed only ever grow.
func (repo courseRepository) SaveQuizResult(ctx context.Context, res course.QuizResult) error {
	q := repo.db.Rebind(`
		INSERT INTO quiz_results (student_id, quiz_id, score, total, best_score, passed, attempts, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (student_id, quiz_id) DO UPDATE SET
			score = excluded.score,
			total = excluded.total,
			best_score = CASE WHEN excluded.best_score > quiz_results.best_score
				THEN excluded.best_score ELSE quiz_results.best_score END,
			passed = (quiz_results.passed OR excluded.passed),
			attempts = quiz_results.attempts + 1,
			updated_at = excluded.updated_at`)
	_, err := repo.db.ExecContext(ctx, q,
		res.StudentID, res.QuizID, res.Score, res.Total, res.BestScore, res.Passed, res.Attempts, res.UpdatedAt.UTC())
	if err != nil {
		return errors.Wrap(err, "upserting quiz result")
	}
	return nil
}

func (repo courseRepository) QueryQuizResults(ctx context.Context, studentID, courseID string) ([]course.QuizResult, error) {
	results := make([]course.QuizResult, 0)
	q := repo.db.Rebind(`
		SELECT r.student_id, r.quiz_id, r.score, r.total, r.best_score, r.passed, r.attempts, r.updated_at
		FROM quiz_results r
		JOIN quizzes q ON q.id = r.quiz_id
		WHERE r.student_id = ? AND q.course_id = ?`)
	if err := repo.db.SelectContext(ctx, &results, q, studentID, courseID); err != nil {
		return nil, errors.Wrap(err, "selecting quiz results")
	}
	return results, nil
}

func (repo courseRepository) CreateAssignment(ctx context.Context, asg course.Assignment) (course.Assignment, error) {
	asg.ID = uuid.New().String()
	asg.CreatedAt = asg.CreatedAt.UTC()

	q := repo.db.Rebind("INSERT INTO assignments (id, course_id, title, description, created_at) VALUES (?, ?, ?, ?, ?)")
	if _, err := repo.db.ExecContext(ctx, q, asg.ID, asg.CourseID, asg.Title, asg.Description, asg.CreatedAt); err != nil {
		return course.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return asg, nil
}

func (repo courseRepository) QueryAssignments(ctx context.Context, courseID string) ([]course.Assignment, error) {
	assignments := make([]course.Assignment, 0)
	q := repo.db.Rebind(`
		SELECT id, course_id, title, description, created_at
		FROM assignments WHERE course_id = ? ORDER BY created_at, id`)
	if err := repo.db.SelectContext(ctx, &assignments, q, courseID); err != nil {
		return nil, errors.Wrap(err, "selecting assignments")
	}
	return assignments, nil
}

func (repo courseRepository) GetAssignment(ctx context.Context, courseID, id string) (course.Assignment, error) {
	var asg course.Assignment
	q := repo.db.Rebind(`
		SELECT id, course_id, title, description, created_at
		FROM assignments WHERE id = ? AND course_id = ?`)
	if err := repo.db.GetContext(ctx, &asg, q, id, courseID); err != nil {
		return course.Assignment{}, trapNoRowsErr(err, course.ErrNotFound, "getting assignment")
	}
	return asg, nil
}

func (repo courseRepository) CreateSubmission(ctx context.Context, sub course.Submission) (course.Submission, error) {
	sub.ID = uuid.New().String()
	sub.SubmittedAt = sub.SubmittedAt.UTC()

	q := repo.db.Rebind(`
		INSERT INTO submissions (id, assignment_id, student_id, file_path, file_name, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := repo.db.ExecContext(ctx, q, sub.ID, sub.AssignmentID, sub.StudentID, sub.FilePath, sub.FileName, sub.SubmittedAt)
	if err != nil {
		return course.Submission{}, errors.Wrap(err, "inserting submission")
	}
	return sub, nil
}

// Enrollment

func (repo courseRepository) CreateEnrollment(ctx context.Context, enr course.Enrollment, cert course.Certificate) (course.Enrollment, error) {
	enr.ID = uuid.New().String()
	enr.EnrolledAt = enr.EnrolledAt.UTC()
	cert.ID = uuid.New().String()
	cert.IssuedAt = cert.IssuedAt.UTC()

	err := repo.withTx(ctx, nil, func(ex core.DBExecutor) error {
		q := ex.Rebind("INSERT INTO enrollments (id, student_id, course_id, enrolled_at) VALUES (?, ?, ?, ?)")
		if _, err := ex.ExecContext(ctx, q, enr.ID, enr.StudentID, enr.CourseID, enr.EnrolledAt); err != nil {
			if isUniqueViolation(err) {
				return course.ErrAlreadyEnrolled
			}
			return errors.Wrap(err, "inserting enrollment")
		}

		q = ex.Rebind(`
			INSERT INTO certificates (id, student_id, course_id, is_completed, issued_at, completed_at)
			VALUES (?, ?, ?, ?, ?, ?)`)
		_, err := ex.ExecContext(ctx, q, cert.ID, cert.StudentID, cert.CourseID, cert.IsCompleted, cert.IssuedAt, cert.CompletedAt)
		if err != nil {
			return errors.Wrap(err, "inserting certificate")
		}
		return nil
	})
	if err != nil {
		return course.Enrollment{}, err
	}
	return enr, nil
}

func (repo courseRepository) GetEnrollment(ctx context.Context, studentID, courseID string) (course.Enrollment, error) {
	var enr course.Enrollment
	q := repo.db.Rebind(`
		SELECT e.id, e.student_id, e.course_id, e.enrolled_at, u.username AS student_name
		FROM enrollments e
		JOIN users u ON u.id = e.student_id
		WHERE e.student_id = ? AND e.course_id = ?`)
	if err := repo.db.GetContext(ctx, &enr, q, studentID, courseID); err != nil {
		return course.Enrollment{}, trapNoRowsErr(err, course.ErrNotFound, "getting enrollment")
	}
	return enr, nil
}

func (repo courseRepository) QueryEnrollments(ctx context.Context, filter course.EnrollmentFilter) ([]course.Enrollment, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.StudentID != "" {
		conds = append(conds, "e.student_id = ?")
		args = append(args, filter.StudentID)
	}
	if filter.CourseID != "" {
		conds = append(conds, "e.course_id = ?")
		args = append(args, filter.CourseID)
	}

	q := `
		SELECT e.id, e.student_id, e.course_id, e.enrolled_at, u.username AS student_name
		FROM enrollments e
		JOIN users u ON u.id = e.student_id` + where(conds) + " ORDER BY e.enrolled_at, e.id"

	enrollments := make([]course.Enrollment, 0)
	if err := repo.db.SelectContext(ctx, &enrollments, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "selecting enrollments")
	}
	return enrollments, nil
}

func (repo courseRepository) GetProgress(ctx context.Context, studentID, courseID string) (course.Progress, error) {
	var prog course.Progress
	err := repo.db.GetContext(ctx, &prog, repo.db.Rebind(progressSelect),
		courseID,
		courseID, studentID,
		courseID,
		courseID, studentID,
		courseID,
		courseID, studentID,
	)
	if err != nil {
		return course.Progress{}, errors.Wrap(err, "counting progress")
	}
	return prog, nil
}

// Certificates

func certificateConds(filter course.CertificateFilter) ([]string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.ID != "" {
		conds = append(conds, "ce.id = ?")
		args = append(args, filter.ID)
	}
	if filter.StudentID != "" {
		conds = append(conds, "ce.student_id = ?")
		args = append(args, filter.StudentID)
	}
	if filter.CourseID != "" {
		conds = append(conds, "ce.course_id = ?")
		args = append(args, filter.CourseID)
	}
	if filter.Pending {
		conds = append(conds, "ce.is_completed = FALSE")
	}
	return conds, args
}

func (repo courseRepository) GetCertificate(ctx context.Context, filter course.CertificateFilter) (course.Certificate, error) {
	conds, args := certificateConds(filter)
	if len(conds) == 0 {
		return course.Certificate{}, course.ErrNotFound
	}

	var cert course.Certificate
	q := repo.db.Rebind(certificateSelect + where(conds))
	if err := repo.db.GetContext(ctx, &cert, q, args...); err != nil {
		return course.Certificate{}, trapNoRowsErr(err, course.ErrNotFound, "getting certificate")
	}
	return cert, nil
}

func (repo courseRepository) QueryCertificates(ctx context.Context, filter course.CertificateFilter) ([]course.Certificate, error) {
	conds, args := certificateConds(filter)

	certs := make([]course.Certificate, 0)
	q := repo.db.Rebind(certificateSelect + where(conds) + " ORDER BY ce.issued_at, ce.id")
	if err := repo.db.SelectContext(ctx, &certs, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting certificates")
	}
	return certs, nil
}

func (repo courseRepository) CompleteCertificate(ctx context.Context, id string, at time.Time) (bool, error) {
	q := repo.db.Rebind("UPDATE certificates SET is_completed = TRUE, completed_at = ? WHERE id = ? AND is_completed = FALSE")
	res, err := repo.db.ExecContext(ctx, q, at.UTC(), id)
	if err != nil {
		return false, errors.Wrap(err, "completing certificate")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "completing certificate")
	}
	return n > 0, nil
}

func where(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}
