// Package web holds the public site (markup, client script, styles) and the
// staff list template, and serves them with an SPA-style fallback: any path
// that is not a file gets the main page so client-side routes can be
// deep-linked.
//
// Assets are embedded at build time; a directory on disk can replace them
// for local development (STATIC_DIR).
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// IndexFile is the page served for every unmatched site path.
const IndexFile = "index.html"

//go:embed static
var staticFS embed.FS

//go:embed templates/*.html
var templateFS embed.FS

// kst is the display zone of the staff page. A fixed offset avoids a
// dependency on the host's tzdata.
var kst = time.FixedZone("KST", 9*60*60)

// Assets returns the site file system: dir when non-empty, otherwise the
// embedded copy. dir must exist and contain IndexFile.
func Assets(dir string) (fs.FS, error) {
	if dir == "" {
		return fs.Sub(staticFS, "static")
	}
	st, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("web: static dir: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("web: static dir %q is not a directory", dir)
	}
	fsys := os.DirFS(dir)
	if _, err := fs.Stat(fsys, IndexFile); err != nil {
		return nil, fmt.Errorf("web: static dir %q: %w", dir, err)
	}
	return fsys, nil
}

// Templates parses the embedded server-side templates. html/template escapes
// every interpolated value for its context, so inquiry fields render as text.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"kst": func(t time.Time) string {
			return t.In(kst).Format("2006.01.02 15:04")
		},
	}).ParseFS(templateFS, "templates/*.html"))
}

// Serve returns a handler that answers GET and HEAD from assets. Regular
// files are served as-is; anything else (missing files, directories) gets
// IndexFile with 200.
func Serve(assets fs.FS) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimPrefix(path.Clean("/"+c.Request.URL.Path), "/")
		if name == "" || !isFile(assets, name) {
			name = IndexFile
		}
		if name == IndexFile {
			c.Header("Cache-Control", "no-cache")
		}
		if err := serveContent(c.Writer, c.Request, assets, name); err != nil {
			c.Status(http.StatusNotFound)
		}
	}
}

// serveContent writes name with conditional-request and range support.
// http.ServeFileFS is avoided because it rejects ".." segments and redirects
// "/index.html" instead of falling back.
func serveContent(w http.ResponseWriter, r *http.Request, assets fs.FS, name string) error {
	f, err := assets.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return err
	}
	rs, ok := f.(io.ReadSeeker)
	if !ok {
		b, err := io.ReadAll(f)
		if err != nil {
			return err
		}
		rs = bytes.NewReader(b)
	}
	http.ServeContent(w, r, name, st.ModTime(), rs)
	return nil
}

func isFile(fsys fs.FS, name string) bool {
	st, err := fs.Stat(fsys, name)
	if err != nil {
		return false
	}
	return !st.IsDir()
}
