package course

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/user"
)

// Authoring is an instructor action on a course they own.
type Authoring int

const (
	AuthorLesson Authoring = iota
	AuthorQuiz
	AuthorAssignment
)

var authoringDenied = map[Authoring]string{
	AuthorLesson:     "Only the course instructor can add lessons.",
	AuthorQuiz:       "Only the course instructor can create quizzes.",
	AuthorAssignment: "Only the course instructor can create assignments.",
}

// Activity is a student action on a course they are enrolled in.
type Activity int

const (
	ViewLessons Activity = iota
	TakeQuizzes
	SubmitAssignments
)

var (
	activityRoleDenied = map[Activity]string{
		ViewLessons:       "Only the course instructor can preview lessons.",
		TakeQuizzes:       "Instructors cannot take quizzes.",
		SubmitAssignments: "Instructors cannot submit assignments.",
	}
	activityNotEnrolled = map[Activity]string{
		ViewLessons:       "You must enroll in the course to view lessons.",
		TakeQuizzes:       "You must enroll in the course to take quizzes.",
		SubmitAssignments: "You must enroll in the course to submit assignments.",
	}
)

const (
	msgCreateCourseDenied        = "Only instructors can create courses."
	msgEnrollDenied              = "Instructors cannot enroll in courses."
	msgInstructorDashboardDenied = "Only instructors can access this dashboard."
)

// AuthorizeCourseCreation checks that p may create courses.
func (svc *Service) AuthorizeCourseCreation(p user.Principal) error {
	if !p.IsInstructor() {
		return core.NewPermissionError(msgCreateCourseDenied)
	}
	return nil
}

// AuthoringCourse returns the course if p is its instructor.
func (svc *Service) AuthoringCourse(ctx context.Context, p user.Principal, courseID string, what Authoring) (Course, error) {
	crs, err := svc.repo.GetCourse(ctx, courseID)
	if err != nil {
		return Course{}, err
	}
	if !p.IsInstructor() || crs.InstructorID != p.ID {
		return Course{}, core.NewPermissionError(authoringDenied[what])
	}
	return crs, nil
}

// StudyingCourse returns the course if p is a student enrolled in it.
// For ViewLessons, the course instructor is also let through (preview = true).
func (svc *Service) StudyingCourse(ctx context.Context, p user.Principal, courseID string, what Activity) (crs Course, preview bool, err error) {
	crs, err = svc.repo.GetCourse(ctx, courseID)
	if err != nil {
		return Course{}, false, err
	}
	if !p.IsStudent() {
		if what == ViewLessons && p.IsInstructor() && crs.InstructorID == p.ID {
			return crs, true, nil
		}
		return Course{}, false, core.NewPermissionError(activityRoleDenied[what])
	}

	if _, err = svc.repo.GetEnrollment(ctx, p.ID, courseID); err != nil {
		if err == ErrNotFound {
			return Course{}, false, core.NewPermissionError(activityNotEnrolled[what])
		}
		return Course{}, false, errors.Wrap(err, "getting enrollment")
	}
	return crs, false, nil
}
