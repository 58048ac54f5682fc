package course

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/user"
)

type (
	Dashboard struct {
		IsInstructor bool
		Courses      []Course // all courses for students, owned courses for instructors
		Enrolled     []CourseDetail
		Certificates []Certificate
	}

	CourseDetail struct {
		Course      Course
		Lessons     []Lesson
		Quizzes     []Quiz
		Assignments []Assignment
		Progress    Progress
		Certificate Certificate
	}

	CourseProgress struct {
		Course          Course
		EnrollmentCount int
		Students        []StudentProgress
	}

	StudentProgress struct {
		StudentID   string
		StudentName string
		Progress    Progress
		QuizScores  []QuizScoreSummary
		Completed   bool
	}

	QuizScoreSummary struct {
		QuizID   string
		Title    string
		Percent  int // best score
		Passed   bool
		Attempts int
	}
)

func (d Dashboard) IsEnrolled(courseID string) bool {
	for _, cd := range d.Enrolled {
		if cd.Course.ID == courseID {
			return true
		}
	}
	return false
}

// StudentDashboard lists the owned courses of an instructor, or the learning overview of a student.
// Pending certificates of the student are re-evaluated on the way.
func (svc *Service) StudentDashboard(ctx context.Context, p user.Principal) (Dashboard, error) {
	if p.IsInstructor() {
		courses, err := svc.repo.QueryCourses(ctx, CourseFilter{InstructorID: p.ID})
		if err != nil {
			return Dashboard{}, errors.Wrap(err, "querying courses")
		}
		return Dashboard{IsInstructor: true, Courses: courses}, nil
	}

	courses, err := svc.repo.QueryCourses(ctx, CourseFilter{})
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "querying courses")
	}
	certs, err := svc.repo.QueryCertificates(ctx, CertificateFilter{StudentID: p.ID})
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "querying certificates")
	}
	certByCourse := make(map[string]Certificate, len(certs))
	for i, cert := range certs {
		if certs[i], err = svc.refresh(ctx, cert); err != nil {
			return Dashboard{}, errors.Wrap(err, "refreshing certificate")
		}
		certByCourse[cert.CourseID] = certs[i]
	}

	enrollments, err := svc.repo.QueryEnrollments(ctx, EnrollmentFilter{StudentID: p.ID})
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "querying enrollments")
	}
	enrolled := make([]CourseDetail, 0, len(enrollments))
	for _, enr := range enrollments {
		cd, err := svc.courseDetail(ctx, p.ID, enr.CourseID)
		if err != nil {
			return Dashboard{}, err
		}
		cd.Certificate = certByCourse[enr.CourseID]
		enrolled = append(enrolled, cd)
	}

	return Dashboard{Courses: courses, Enrolled: enrolled, Certificates: certs}, nil
}

func (svc *Service) courseDetail(ctx context.Context, studentID, courseID string) (CourseDetail, error) {
	var (
		cd  CourseDetail
		err error
	)
	if cd.Course, err = svc.repo.GetCourse(ctx, courseID); err != nil {
		return CourseDetail{}, errors.Wrap(err, "getting course")
	}
	if cd.Lessons, err = svc.repo.QueryLessons(ctx, courseID); err != nil {
		return CourseDetail{}, errors.Wrap(err, "querying lessons")
	}
	if cd.Quizzes, err = svc.repo.QueryQuizzes(ctx, courseID); err != nil {
		return CourseDetail{}, errors.Wrap(err, "querying quizzes")
	}
	if cd.Assignments, err = svc.repo.QueryAssignments(ctx, courseID); err != nil {
		return CourseDetail{}, errors.Wrap(err, "querying assignments")
	}
	if cd.Progress, err = svc.repo.GetProgress(ctx, studentID, courseID); err != nil {
		return CourseDetail{}, errors.Wrap(err, "getting progress")
	}
	return cd, nil
}

// InstructorDashboard reports, for each course of instructor p, the progress of every enrolled student.
func (svc *Service) InstructorDashboard(ctx context.Context, p user.Principal) ([]CourseProgress, error) {
	if !p.IsInstructor() {
		return nil, core.NewPermissionError(msgInstructorDashboardDenied)
	}

	courses, err := svc.repo.QueryCourses(ctx, CourseFilter{InstructorID: p.ID})
	if err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}

	report := make([]CourseProgress, 0, len(courses))
	for _, crs := range courses {
		quizzes, err := svc.repo.QueryQuizzes(ctx, crs.ID)
		if err != nil {
			return nil, errors.Wrap(err, "querying quizzes")
		}
		enrollments, err := svc.repo.QueryEnrollments(ctx, EnrollmentFilter{CourseID: crs.ID})
		if err != nil {
			return nil, errors.Wrap(err, "querying enrollments")
		}

		cp := CourseProgress{
			Course:          crs,
			EnrollmentCount: len(enrollments),
			Students:        make([]StudentProgress, 0, len(enrollments)),
		}
		for _, enr := range enrollments {
			sp, err := svc.studentProgress(ctx, enr, quizzes)
			if err != nil {
				return nil, err
			}
			cp.Students = append(cp.Students, sp)
		}
		report = append(report, cp)
	}
	return report, nil
}

func (svc *Service) studentProgress(ctx context.Context, enr Enrollment, quizzes []Quiz) (StudentProgress, error) {
	prog, err := svc.repo.GetProgress(ctx, enr.StudentID, enr.CourseID)
	if err != nil {
		return StudentProgress{}, errors.Wrap(err, "getting progress")
	}
	results, err := svc.repo.QueryQuizResults(ctx, enr.StudentID, enr.CourseID)
	if err != nil {
		return StudentProgress{}, errors.Wrap(err, "querying quiz results")
	}
	cert, err := svc.repo.GetCertificate(ctx, CertificateFilter{StudentID: enr.StudentID, CourseID: enr.CourseID})
	if err != nil && err != ErrNotFound {
		return StudentProgress{}, errors.Wrap(err, "getting certificate")
	}

	byQuiz := make(map[string]QuizResult, len(results))
	for _, res := range results {
		byQuiz[res.QuizID] = res
	}
	scores := make([]QuizScoreSummary, 0, len(quizzes))
	for _, qz := range quizzes {
		res := byQuiz[qz.ID]
		scores = append(scores, QuizScoreSummary{
			QuizID:   qz.ID,
			Title:    qz.Title,
			Percent:  res.BestPercent(),
			Passed:   res.Passed,
			Attempts: res.Attempts,
		})
	}

	return StudentProgress{
		StudentID:   enr.StudentID,
		StudentName: enr.StudentName,
		Progress:    prog,
		QuizScores:  scores,
		Completed:   cert.IsCompleted,
	}, nil
}
