package echoapi_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/Abiramialagugaganeshan/Learning-Management-System/apps/api/echo"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/course"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/user"
	emailsvc "github.com/Abiramialagugaganeshan/Learning-Management-System/services/email"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/services/filestore"
	pdfsvc "github.com/Abiramialagugaganeshan/Learning-Management-System/services/pdf"
	sqlxrepos "github.com/Abiramialagugaganeshan/Learning-Management-System/storage/database/sqlx"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/tests"
)

const pwd = "Str0ng!Pass"

type testApp struct {
	srv        echoapi.Server
	db         *sqlx.DB
	conf       *core.Config
	usrRepo    user.Repository
	courseRepo course.Repository
	files      afero.Fs
}

func setup(t *testing.T) *testApp {
	// set up DB & repos
	db := testutil.PrepareDB(t)
	conf := testutil.Config()
	logger := testutil.NewLogger(t)
	usrRepo := sqlxrepos.NewUserRepository(db)
	courseRepo := sqlxrepos.NewCourseRepository(db)
	files := afero.NewMemMapFs()

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	usrSvc := user.NewService(usrRepo)
	courseSvc := course.NewService(
		courseRepo,
		filestore.NewStore(files, conf.Media.Root),
		pdfsvc.NewRenderer(conf.Certificate.Issuer),
		mailSvc,
		logger,
	)
	validate, translator := testutil.NewValidator()
	user.LoadCommonPasswords(logger)

	// set up server
	srv, err := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		UserSvc:    usrSvc,
		CourseSvc:  courseSvc,
		Validate:   validate,
		Translator: translator,
	})
	require.NoError(t, err)

	emailsvc.ClearSentMessages()
	return &testApp{
		srv:        srv,
		db:         db,
		conf:       conf,
		usrRepo:    usrRepo,
		courseRepo: courseRepo,
		files:      files,
	}
}

// createUser creates an active user with the given role and returns it as a Principal.
func (app *testApp) createUser(t *testing.T, uname string, role user.Role) user.Principal {
	usr := testutil.CreateUser(t, app.usrRepo, uname, uname+"@test.cd", pwd, role, true)
	return testutil.AsPrincipal(usr, role)
}

func (app *testApp) token(t *testing.T, p user.Principal) string {
	token, err := echoapi.GenerateToken(app.conf, p)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}
	return token
}

func (app *testApp) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.srv.ServeHTTP(rec, req)
	return rec
}

// do sends a request as p, with form as the urlencoded body. A zero p is anonymous.
func (app *testApp) do(t *testing.T, method, path string, p user.Principal, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if p.ID != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: app.token(t, p)})
	}
	return app.serve(req)
}

// upload posts a multipart form as p, with an optional file under the "file" field.
func (app *testApp) upload(t *testing.T, path string, p user.Principal, filename string, content []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: "session", Value: app.token(t, p)})
	return app.serve(req)
}

type flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// flashesOf decodes the flash cookie set by the response.
func flashesOf(t *testing.T, rec *httptest.ResponseRecorder) []flash {
	for _, c := range rec.Result().Cookies() {
		if c.Name != "flash" || c.Value == "" {
			continue
		}
		raw, err := base64.URLEncoding.DecodeString(c.Value)
		require.NoError(t, err)
		var f []flash
		require.NoError(t, json.Unmarshal(raw, &f))
		return f
	}
	return nil
}

func cookieOf(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

type redirectTest struct {
	name      string
	method    string
	path      string
	as        user.Principal
	form      url.Values
	wantCode  int
	wantLoc   string
	wantFlash *flash
	wantBody  []string
}

func (app *testApp) check(t *testing.T, tt redirectTest) *httptest.ResponseRecorder {
	t.Helper()
	rec := app.do(t, tt.method, tt.path, tt.as, tt.form)

	assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
	if tt.wantLoc != "" {
		assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
	}
	if tt.wantFlash != nil {
		assert.Contains(t, flashesOf(t, rec), *tt.wantFlash)
	}
	for _, s := range tt.wantBody {
		assert.Contains(t, rec.Body.String(), s)
	}
	return rec
}

func newJSONRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
