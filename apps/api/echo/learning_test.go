package echoapi_test

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/course"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/user"
	emailsvc "github.com/Abiramialagugaganeshan/Learning-Management-System/services/email"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/tests"
)

// answersForm answers the quiz made by testutil.CreateQuiz, right answers first.
func answersForm(qz course.Quiz, right int) url.Values {
	answers := testutil.Answers(qz, right)
	form := make(url.Values, len(qz.Questions))
	for _, q := range qz.Questions {
		form.Set(q.FormField(), strconv.Itoa(answers[q.ID]))
	}
	return form
}

func Test_lessonDetail(t *testing.T) {
	app := setup(t)
	ctx := context.Background()
	stud := app.createUser(t, "stud", user.RoleStudent)
	lazy := app.createUser(t, "lazy", user.RoleStudent)
	prof := app.createUser(t, "prof", user.RoleInstructor)
	other := app.createUser(t, "other", user.RoleInstructor)
	crs := testutil.CreateCourse(t, app.courseRepo, prof.ID, "Go")
	lsn := testutil.CreateLesson(t, app.courseRepo, crs.ID, "Intro", "https://www.youtube.com/watch?v=abc_123")
	bad := testutil.CreateLesson(t, app.courseRepo, crs.ID, "Broken", "https://vimeo.com/42")
	testutil.Enroll(t, app.courseRepo, stud.ID, crs.ID)

	path := func(l course.Lesson) string { return "/courses/" + crs.ID + "/lessons/" + l.ID }
	tests := []redirectTest{
		{
			name:      "not enrolled",
			path:      path(lsn),
			as:        lazy,
			wantCode:  http.StatusSeeOther,
			wantLoc:   "/courses",
			wantFlash: &flash{Level: "error", Message: "You must enroll in the course to view lessons."},
		},
		{
			name:      "other instructor",
			path:      path(lsn),
			as:        other,
			wantCode:  http.StatusSeeOther,
			wantLoc:   "/courses",
			wantFlash: &flash{Level: "error", Message: "Only the course instructor can preview lessons."},
		},
		{name: "unknown lesson", path: "/courses/" + crs.ID + "/lessons/lol", as: stud, wantCode: http.StatusNotFound},
		{name: "preview", path: path(lsn), as: prof, wantCode: http.StatusOK, wantBody: []string{"instructor preview", "https://www.youtube.com/embed/abc_123"}},
		{name: "embeddable", path: path(lsn), as: stud, wantCode: http.StatusOK, wantBody: []string{"<iframe", "https://www.youtube.com/embed/abc_123"}},
		{name: "not embeddable", path: path(bad), as: stud, wantCode: http.StatusOK, wantBody: []string{"Invalid YouTube URL. Please ensure the video is embeddable."}},
		{name: "viewed twice", path: path(lsn), as: stud, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		tt := tt
		tt.method = http.MethodGet
		t.Run(tt.name, func(t *testing.T) {
			app.check(t, tt)
		})
	}

	prog, err := app.courseRepo.GetProgress(ctx, stud.ID, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, prog.ViewedLessons)
	assert.Equal(t, 2, prog.TotalLessons)

	// previews are not progress
	prog, err = app.courseRepo.GetProgress(ctx, prof.ID, crs.ID)
	require.NoError(t, err)
	assert.Zero(t, prog.ViewedLessons)
}

func Test_quizTake(t *testing.T) {
	app := setup(t)
	ctx := context.Background()
	stud := app.createUser(t, "stud", user.RoleStudent)
	lazy := app.createUser(t, "lazy", user.RoleStudent)
	prof := app.createUser(t, "prof", user.RoleInstructor)
	crs := testutil.CreateCourse(t, app.courseRepo, prof.ID, "Go")
	qz := testutil.CreateQuiz(t, app.courseRepo, crs.ID, "Basics", 10)
	testutil.Enroll(t, app.courseRepo, stud.ID, crs.ID)

	path := "/courses/" + crs.ID + "/quizzes/" + qz.ID
	tests := []redirectTest{
		{name: "form", method: http.MethodGet, as: stud, wantCode: http.StatusOK, wantBody: []string{"Basics", qz.Questions[0].FormField()}},
		{
			name:      "form: instructor",
			method:    http.MethodGet,
			as:        prof,
			wantCode:  http.StatusSeeOther,
			wantLoc:   "/courses",
			wantFlash: &flash{Level: "error", Message: "Instructors cannot take quizzes."},
		},
		{
			name:      "not enrolled",
			method:    http.MethodPost,
			as:        lazy,
			form:      answersForm(qz, 10),
			wantCode:  http.StatusSeeOther,
			wantLoc:   "/courses",
			wantFlash: &flash{Level: "error", Message: "You must enroll in the course to take quizzes."},
		},
		{
			name:      "no answers",
			method:    http.MethodPost,
			as:        stud,
			form:      url.Values{},
			wantCode:  http.StatusSeeOther,
			wantLoc:   "/dashboard",
			wantFlash: &flash{Level: "success", Message: "Your score: 0/10."},
		},
		{
			name:      "fail",
			method:    http.MethodPost,
			as:        stud,
			form:      answersForm(qz, 6),
			wantCode:  http.StatusSeeOther,
			wantLoc:   "/dashboard",
			wantFlash: &flash{Level: "success", Message: "Your score: 6/10."},
		},
		{
			name:      "pass",
			method:    http.MethodPost,
			as:        stud,
			form:      answersForm(qz, 7),
			wantCode:  http.StatusSeeOther,
			wantLoc:   "/dashboard",
			wantFlash: &flash{Level: "success", Message: "Your score: 7/10."},
		},
		{
			name:      "fail after pass",
			method:    http.MethodPost,
			as:        stud,
			form:      answersForm(qz, 1),
			wantCode:  http.StatusSeeOther,
			wantLoc:   "/dashboard",
			wantFlash: &flash{Level: "success", Message: "Your score: 1/10."},
		},
	}
	for _, tt := range tests {
		tt := tt
		tt.path = path
		t.Run(tt.name, func(t *testing.T) {
			app.check(t, tt)
		})
	}

	res, err := app.courseRepo.GetQuizResult(ctx, stud.ID, qz.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 7, res.BestScore)
	assert.Equal(t, 4, res.Attempts)
	assert.True(t, res.Passed)

	cert, err := app.courseRepo.GetCertificate(ctx, course.CertificateFilter{StudentID: stud.ID, CourseID: crs.ID})
	require.NoError(t, err)
	assert.True(t, cert.IsCompleted)
}

func Test_assignmentSubmit(t *testing.T) {
	app := setup(t)
	ctx := context.Background()
	stud := app.createUser(t, "stud", user.RoleStudent)
	lazy := app.createUser(t, "lazy", user.RoleStudent)
	prof := app.createUser(t, "prof", user.RoleInstructor)
	crs := testutil.CreateCourse(t, app.courseRepo, prof.ID, "Go")
	asg := testutil.CreateAssignment(t, app.courseRepo, crs.ID, "Essay")
	testutil.Enroll(t, app.courseRepo, stud.ID, crs.ID)

	path := "/courses/" + crs.ID + "/assignments/" + asg.ID + "/submit"

	t.Run("form", func(t *testing.T) {
		app.check(t, redirectTest{method: http.MethodGet, path: path, as: stud, wantCode: http.StatusOK, wantBody: []string{"Essay", "multipart/form-data"}})
	})
	t.Run("instructor", func(t *testing.T) {
		rec := app.upload(t, path, prof, "essay.txt", []byte("lol"))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Contains(t, flashesOf(t, rec), flash{Level: "error", Message: "Instructors cannot submit assignments."})
	})
	t.Run("not enrolled", func(t *testing.T) {
		rec := app.upload(t, path, lazy, "essay.txt", []byte("lol"))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Contains(t, flashesOf(t, rec), flash{Level: "error", Message: "You must enroll in the course to submit assignments."})
	})
	t.Run("no file", func(t *testing.T) {
		rec := app.upload(t, path, stud, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Please upload a file.")
	})
	t.Run("not multipart", func(t *testing.T) {
		app.check(t, redirectTest{method: http.MethodPost, path: path, as: stud, form: url.Values{}, wantCode: http.StatusBadRequest})
	})
	t.Run("submit", func(t *testing.T) {
		rec := app.upload(t, path, stud, "../my essay.txt", []byte("Go is fun."))
		assert.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
		assert.Contains(t, flashesOf(t, rec), flash{Level: "success", Message: "Assignment submitted successfully."})
	})
	t.Run("resubmit", func(t *testing.T) {
		rec := app.upload(t, path, stud, "essay-v2.txt", []byte("Go is really fun."))
		assert.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	})

	prog, err := app.courseRepo.GetProgress(ctx, stud.ID, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, prog.SubmittedAssignments)

	files, err := afero.ReadDir(app.files, app.conf.Media.Root+"/submissions/"+asg.ID)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	cert, err := app.courseRepo.GetCertificate(ctx, course.CertificateFilter{StudentID: stud.ID, CourseID: crs.ID})
	require.NoError(t, err)
	assert.True(t, cert.IsCompleted)
}

func Test_certificateExport(t *testing.T) {
	app := setup(t)
	ctx := context.Background()
	stud := app.createUser(t, "stud", user.RoleStudent)
	lazy := app.createUser(t, "lazy", user.RoleStudent)
	prof := app.createUser(t, "prof", user.RoleInstructor)
	crs := testutil.CreateCourse(t, app.courseRepo, prof.ID, "Go")
	lsn := testutil.CreateLesson(t, app.courseRepo, crs.ID, "Intro", "https://youtu.be/abc")
	testutil.Enroll(t, app.courseRepo, stud.ID, crs.ID)
	testutil.Enroll(t, app.courseRepo, lazy.ID, crs.ID)

	studCert, err := app.courseRepo.GetCertificate(ctx, course.CertificateFilter{StudentID: stud.ID, CourseID: crs.ID})
	require.NoError(t, err)
	lazyCert, err := app.courseRepo.GetCertificate(ctx, course.CertificateFilter{StudentID: lazy.ID, CourseID: crs.ID})
	require.NoError(t, err)

	path := "/certificates/" + studCert.ID

	t.Run("pending", func(t *testing.T) {
		app.check(t, redirectTest{
			method:    http.MethodGet,
			path:      path,
			as:        stud,
			wantCode:  http.StatusSeeOther,
			wantLoc:   "/dashboard",
			wantFlash: &flash{Level: "error", Message: "Course not completed yet."},
		})
	})

	// progress recorded behind the engine's back is picked up on export
	require.NoError(t, app.courseRepo.MarkLessonViewed(ctx, stud.ID, lsn.ID, crs.CreatedAt))

	t.Run("other student", func(t *testing.T) {
		app.check(t, redirectTest{method: http.MethodGet, path: path, as: lazy, wantCode: http.StatusNotFound})
	})
	t.Run("instructor", func(t *testing.T) {
		app.check(t, redirectTest{method: http.MethodGet, path: path, as: prof, wantCode: http.StatusNotFound})
	})
	t.Run("other pending", func(t *testing.T) {
		app.check(t, redirectTest{method: http.MethodGet, path: "/certificates/" + lazyCert.ID, as: lazy, wantCode: http.StatusSeeOther, wantLoc: "/dashboard"})
	})
	t.Run("completed", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, path, stud, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="certificate_`+studCert.ID+`.pdf"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, "%PDF-", rec.Body.String()[:5])
	})
}

// Test_learningPath runs a course end to end: authoring, enrollment, study & certification.
func Test_learningPath(t *testing.T) {
	app := setup(t)
	ctx := context.Background()
	prof := app.createUser(t, "prof", user.RoleInstructor)
	stud := app.createUser(t, "stud", user.RoleStudent)

	post := func(t *testing.T, path string, p user.Principal, form url.Values) {
		t.Helper()
		rec := app.do(t, http.MethodPost, path, p, form)
		require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	}

	// authoring
	post(t, "/courses/create", prof, url.Values{"title": {"Go"}, "description": {"Learn Go"}})
	courses, err := app.courseRepo.QueryCourses(ctx, course.CourseFilter{InstructorID: prof.ID})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	crs := courses[0]
	base := "/courses/" + crs.ID

	post(t, base+"/lessons/create", prof, url.Values{"title": {"Intro"}, "video_url": {"https://youtu.be/abc"}})
	post(t, base+"/quizzes/create", prof, url.Values{
		"title":          {"Basics"},
		"question_text":  {"1+1?", "2+2?", "3+3?"},
		"option1":        {"2", "4", "6"},
		"option2":        {"3", "5", "7"},
		"option3":        {"4", "6", "8"},
		"option4":        {"5", "7", "9"},
		"correct_option": {"1", "1", "1"},
	})
	post(t, base+"/assignments/create", prof, url.Values{"title": {"Essay"}, "description": {"Why Go?"}})

	lessons, err := app.courseRepo.QueryLessons(ctx, crs.ID)
	require.NoError(t, err)
	quizzes, err := app.courseRepo.QueryQuizzes(ctx, crs.ID)
	require.NoError(t, err)
	qz, err := app.courseRepo.GetQuiz(ctx, crs.ID, quizzes[0].ID)
	require.NoError(t, err)
	assignments, err := app.courseRepo.QueryAssignments(ctx, crs.ID)
	require.NoError(t, err)

	certificate := func() course.Certificate {
		cert, err := app.courseRepo.GetCertificate(ctx, course.CertificateFilter{StudentID: stud.ID, CourseID: crs.ID})
		require.NoError(t, err)
		return cert
	}

	// study
	post(t, "/enroll/"+crs.ID, stud, nil)
	assert.False(t, certificate().IsCompleted)

	rec := app.do(t, http.MethodGet, base+"/lessons/"+lessons[0].ID, stud, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, certificate().IsCompleted)

	// 2/3 is below the pass mark
	post(t, base+"/quizzes/"+qz.ID, stud, answersForm(qz, 2))
	assert.False(t, certificate().IsCompleted)
	post(t, base+"/quizzes/"+qz.ID, stud, answersForm(qz, 3))
	assert.False(t, certificate().IsCompleted)

	rec = app.do(t, http.MethodGet, "/dashboard", stud, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Quizzes passed: 1/1")
	assert.Contains(t, rec.Body.String(), "pending")

	rec = app.upload(t, base+"/assignments/"+assignments[0].ID+"/submit", stud, "essay.txt", []byte("Because."))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	cert := certificate()
	require.True(t, cert.IsCompleted)
	require.True(t, cert.CompletedAt.Valid)

	var notified bool
	for _, msg := range emailsvc.SentMessages() {
		if msg.Subject == "Certificate of Completion: Go" && msg.HasAttachments() {
			notified = true
		}
	}
	assert.True(t, notified, "completion email not sent")

	// new content does not take a certificate back
	post(t, base+"/lessons/create", prof, url.Values{"title": {"Extra"}, "video_url": {"https://youtu.be/def"}})
	rec = app.do(t, http.MethodGet, "/dashboard", stud, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/certificates/"+cert.ID)
	assert.Equal(t, cert.CompletedAt.Time.Unix(), certificate().CompletedAt.Time.Unix())

	rec = app.do(t, http.MethodGet, "/certificates/"+cert.ID, stud, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec = app.do(t, http.MethodGet, "/instructor_dashboard", prof, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Basics: 100% (passed)")
	assert.Contains(t, rec.Body.String(), "completed")
}
