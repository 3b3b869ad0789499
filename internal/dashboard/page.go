package dashboard

import (
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/isdelr/waitlist-be/internal/models"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"formatDate": func(t time.Time) string { return t.Format(LastSignupLayout) },
	"add":        func(a, b int) int { return a + b },
	"sub":        func(a, b int) int { return a - b },
}).ParseFS(templateFS, "templates/dashboard.html"))

// View is everything the dashboard page renders.
type View struct {
	Stats Stats
	Query string
	Page  Page
}

// BuildView computes the stats over all subscribers and the requested page of
// those matching query.
func BuildView(subs []models.Subscriber, query string, page int, now time.Time) View {
	return View{
		Stats: ComputeStats(subs, now),
		Query: query,
		Page:  Paginate(Filter(subs, query), page, DefaultPerPage),
	}
}

// Render writes the dashboard HTML for v.
func Render(w io.Writer, v View) error {
	return pageTemplate.Execute(w, v)
}
