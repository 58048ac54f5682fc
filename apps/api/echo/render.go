package echoapi

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/course"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/user"
	appfs "github.com/Abiramialagugaganeshan/Learning-Management-System/fs"
)

const pagesDir = "templates/pages"

// page is the data every page template is executed with.
type page struct {
	Title     string
	Principal user.Principal
	LoggedIn  bool
	Flashes   []flash
	CSRF      string
	Form      interface{}
	Errors    map[string]string
	Data      interface{}
}

type templateRenderer struct {
	templates map[string]*template.Template
}

var _ echo.Renderer = (*templateRenderer)(nil)

var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"option": func(q course.NewQuestion, i int) string {
		if i < len(q.Options) {
			return q.Options[i]
		}
		return ""
	},
	"optionValues": func() []int { return []int{1, 2, 3, 4} },
}

// newTemplateRenderer parses every page of the embedded FS along with the shared layout.
func newTemplateRenderer() (*templateRenderer, error) {
	entries, err := fs.ReadDir(appfs.FS, pagesDir)
	if err != nil {
		return nil, err
	}

	r := &templateRenderer{templates: make(map[string]*template.Template)}
	base := path.Join(pagesDir, "_base.gohtml")
	for _, de := range entries {
		fname := de.Name()
		if de.IsDir() || strings.HasPrefix(fname, "_") || path.Ext(fname) != ".gohtml" {
			continue
		}
		name := strings.TrimSuffix(fname, ".gohtml")
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(appfs.FS, base, path.Join(pagesDir, fname))
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", fname)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("page template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

// render fills the request bound fields of pg and renders the page template.
func render(ctx echo.Context, code int, name string, pg page) error {
	pg.Principal, pg.LoggedIn = contextPrincipal(ctx)
	pg.Flashes = append(popFlashes(ctx), pg.Flashes...)
	pg.CSRF, _ = ctx.Get(csrfField).(string)
	if pg.Errors == nil {
		pg.Errors = map[string]string{}
	}
	return ctx.Render(code, name, pg)
}
