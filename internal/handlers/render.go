package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"iticket-storefront/internal/middleware"
	"iticket-storefront/internal/models"
	"iticket-storefront/internal/session"
	"iticket-storefront/web/templates"
)

// PageData is the envelope every page template receives.
type PageData struct {
	Title         string
	Authenticated bool
	User          *models.User
	CartCount     int
	Flashes       []FlashMessage
	Error         string
	Data          any
}

// Renderer renders embedded pages against the shared layout.
type Renderer struct {
	pages   map[string]*template.Template
	session *session.Store
}

var templateFuncs = template.FuncMap{
	"money": func(amount float64) string {
		return fmt.Sprintf("%.2f", amount)
	},
}

// NewRenderer parses the embedded templates once at startup. Every page
// is compiled together with the layout so a broken template fails fast.
func NewRenderer(store *session.Store) (*Renderer, error) {
	entries, err := fs.Glob(templates.FS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, name := range entries {
		if name == "layout.html" {
			continue
		}
		tmpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templates.FS, "layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages, session: store}, nil
}

// Render writes a page. The envelope carries the session status and the
// badge count from the request context; page-specific data goes in Data.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, page string, data PageData) {
	tmpl, ok := r.pages[page]
	if !ok {
		log.Printf("unknown template %q", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data.Authenticated = r.session.IsAuthenticated()
	_, data.User = r.session.Current()
	data.CartCount = middleware.GetCartCount(req.Context())
	if data.Title == "" {
		data.Title = "iTicket"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		log.Printf("failed to render %s: %v", page, err)
	}
}

// safeReturnPath keeps post-login redirects on-site: only rooted paths
// without a second slash (protocol-relative URLs) are accepted.
func safeReturnPath(path string) string {
	if path == "" || !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return "/"
	}
	return path
}
