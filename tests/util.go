package testutil

import (
	"context"
	"net/mail"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap/zaptest"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/course"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/user"
	logsvc "github.com/Abiramialagugaganeshan/Learning-Management-System/services/logger"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/storage/database"
)

// Config returns the configuration used by tests: sqlite, no CSRF, no request logs.
func Config() *core.Config {
	return &core.Config{
		Env:              "TEST",
		Build:            "test",
		TestMode:         true,
		AppName:          "LMS",
		SecretKey:        "test-secret",
		BaseURL:          "http://localhost:8000",
		DefaultFromEmail: mail.Address{Name: "LMS", Address: "noreply@test.cd"},
		Server: core.ServerConfig{
			Address:                ":0",
			ShutdownTimeout:        time.Second,
			SessionExpirationDelta: time.Hour,
			DisableCSRF:            true,
		},
		Database: core.DatabaseConfig{
			Engine: "sqlite3",
			Name:   "test.sqlite3",
		},
		Media: core.MediaConfig{
			Root:          "/media",
			MaxUploadSize: "2M",
		},
		Certificate: core.CertificateConfig{
			Issuer: "Docebo",
		},
	}
}

// PrepareDB opens a migrated sqlite database in a temp dir, closed at the end of the test.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conf := Config()
	conf.Database.Name = filepath.Join(t.TempDir(), "test.sqlite3")

	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

// NewLogger returns a core.Logger writing to the test log.
func NewLogger(t *testing.T) core.Logger {
	return logsvc.NewRollbarLogger(zaptest.NewLogger(t).Sugar(), Config())
}

// NewValidator returns a validator with every app validator registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	course.InitValidators(validate, translator)
	return validate, translator
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	uname, email, pwd string,
	role user.Role,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Username:  uname,
		Email:     email,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr, role)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// AsPrincipal returns the Principal of usr with the given role.
func AsPrincipal(usr user.User, role user.Role) user.Principal {
	return user.Principal{ID: usr.ID, Username: usr.Username, Email: usr.Email, Role: role}
}

func CreateCourse(t *testing.T, repo course.Repository, instructorID, title string) course.Course {
	t.Helper()
	crs, err := repo.CreateCourse(context.Background(), course.Course{
		Title:        title,
		Description:  title + " description",
		InstructorID: instructorID,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

func CreateLesson(t *testing.T, repo course.Repository, courseID, title, videoURL string) course.Lesson {
	t.Helper()
	lsn, err := repo.CreateLesson(context.Background(), course.Lesson{
		CourseID:  courseID,
		Title:     title,
		VideoURL:  videoURL,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateLesson() failed: %v", err)
	}
	return lsn
}

func CreateAssignment(t *testing.T, repo course.Repository, courseID, title string) course.Assignment {
	t.Helper()
	asg, err := repo.CreateAssignment(context.Background(), course.Assignment{
		CourseID:    courseID,
		Title:       title,
		Description: title + " description",
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return asg
}

// CreateQuiz creates a quiz of n questions whose correct option is always 1.
func CreateQuiz(t *testing.T, repo course.Repository, courseID, title string, n int) course.Quiz {
	t.Helper()
	qz := course.Quiz{CourseID: courseID, Title: title, CreatedAt: time.Now().UTC()}
	for i := 1; i <= n; i++ {
		qz.Questions = append(qz.Questions, course.Question{
			Position:      i,
			Text:          title + " question",
			Option1:       "right",
			Option2:       "wrong a",
			Option3:       "wrong b",
			Option4:       "wrong c",
			CorrectOption: 1,
		})
	}
	qz, err := repo.CreateQuiz(context.Background(), qz)
	if err != nil {
		t.Fatalf("CreateQuiz() failed: %v", err)
	}
	return qz
}

// Answers answers the first `right` questions of a quiz made by CreateQuiz correctly, the others wrong.
func Answers(qz course.Quiz, right int) course.QuizAnswers {
	answers := make(course.QuizAnswers, len(qz.Questions))
	for i, q := range qz.Questions {
		if i < right {
			answers[q.ID] = q.CorrectOption
		} else {
			answers[q.ID] = q.CorrectOption%4 + 1
		}
	}
	return answers
}

// Enroll enrolls the student with a pending certificate, bypassing the service.
func Enroll(t *testing.T, repo course.Repository, studentID, courseID string) course.Enrollment {
	t.Helper()
	now := time.Now().UTC()
	enr, err := repo.CreateEnrollment(context.Background(),
		course.Enrollment{StudentID: studentID, CourseID: courseID, EnrolledAt: now},
		course.Certificate{StudentID: studentID, CourseID: courseID, IssuedAt: now},
	)
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}
	return enr
}
