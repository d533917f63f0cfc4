package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*.css
var staticFS embed.FS

const layoutFile = "templates/layout.html"

var printer = message.NewPrinter(language.English)

// Page is the data every template receives
type Page struct {
	Title   string
	User    *models.User
	Flashes []Flash
	Path    string
	Data    interface{}
}

type renderer struct {
	pages map[string]*template.Template
}

func templateFuncs(now func() time.Time) template.FuncMap {
	return template.FuncMap{
		"money": func(amount float64) string {
			return printer.Sprint(currency.Symbol(currency.INR.Amount(amount)))
		},
		"number": func(n interface{}) string {
			switch v := n.(type) {
			case int:
				return humanize.Comma(int64(v))
			case int64:
				return humanize.Comma(v)
			case float64:
				return humanize.Commaf(v)
			default:
				return fmt.Sprint(v)
			}
		},
		"ago": func(t time.Time) string {
			return humanize.RelTime(t, now(), "ago", "from now")
		},
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"datetime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 15:04")
		},
		"datetimeLocal": func(t time.Time) string {
			return t.Format(helpers.DateTimeLocalLayout)
		},
		"derefInt": func(p *int) int {
			if p == nil {
				return 0
			}
			return *p
		},
		"excerpt": func(s string, n int) string {
			r := []rune(strings.TrimSpace(s))
			if len(r) <= n {
				return string(r)
			}
			return strings.TrimSpace(string(r[:n])) + "..."
		},
		"title": func(s string) string {
			s = strings.ReplaceAll(s, "_", " ")
			s = strings.ReplaceAll(s, "-", " ")
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"upcoming": func(e *models.Event) bool {
			return e.IsUpcoming(now())
		},
		"jobOpen": func(j *models.Job) bool {
			return j.IsOpen(now())
		},
		"paragraphs": func(s string) []string {
			var out []string
			for _, p := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n") {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			return out
		},
	}
}

func newRenderer(now func() time.Time) (*renderer, error) {
	names, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &renderer{pages: make(map[string]*template.Template, len(names))}
	funcs := templateFuncs(now)
	for _, name := range names {
		if name == layoutFile {
			continue
		}
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, layoutFile, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		key := strings.TrimSuffix(strings.TrimPrefix(name, "templates/"), ".html")
		r.pages[key] = tmpl
	}
	return r, nil
}

func (r *renderer) render(c *gin.Context, status int, name string, page Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
	return nil
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
