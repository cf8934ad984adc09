// Package views renders the server-side admin pages through fiber's Views interface.
package views

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var files embed.FS

var funcs = map[string]interface{}{
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"title": func(s string) string {
		s = strings.ReplaceAll(s, "_", " ")
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
}

// New returns the page engine; pages are named after their file, e.g. "login"
// for templates/login.html. Fiber loads it once at startup.
func New() *html.Engine {
	pages, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(pages), ".html")
	engine.AddFuncMap(funcs)
	return engine
}
