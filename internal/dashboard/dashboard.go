// Package dashboard derives the admin dashboard views from the subscriber list.
package dashboard

import (
	"math"
	"strings"
	"time"

	"github.com/isdelr/waitlist-be/internal/models"
)

// DefaultPerPage is the number of subscribers shown on one dashboard page.
const DefaultPerPage = 100

// LastSignupLayout formats the most recent signup time.
const LastSignupLayout = "Jan 2, 2006, 03:04 PM"

const week = 7 * 24 * time.Hour

// Stats summarises the subscriber list.
type Stats struct {
	Total       int    `json:"total"`
	RecentCount int    `json:"recentCount"`
	GrowthRate  int    `json:"growthRate"`
	LastSignup  string `json:"lastSignup"`
}

// ComputeStats counts signups of the last seven days against the seven days
// before that. Subscribers may be in any order.
func ComputeStats(subs []models.Subscriber, now time.Time) Stats {
	stats := Stats{Total: len(subs), LastSignup: "None yet"}
	if len(subs) == 0 {
		return stats
	}

	weekAgo := now.Add(-week)
	twoWeeksAgo := weekAgo.Add(-week)

	var previous int
	latest := subs[0].CreatedAt
	for _, s := range subs {
		switch {
		case !s.CreatedAt.Before(weekAgo):
			stats.RecentCount++
		case !s.CreatedAt.Before(twoWeeksAgo):
			previous++
		}
		if s.CreatedAt.After(latest) {
			latest = s.CreatedAt
		}
	}

	switch {
	case previous > 0:
		change := float64(stats.RecentCount-previous) / float64(previous) * 100
		// Halves round up, so -50.5 becomes -50.
		stats.GrowthRate = int(math.Floor(change + 0.5))
	case stats.RecentCount > 0:
		stats.GrowthRate = 100
	}

	stats.LastSignup = latest.Format(LastSignupLayout)
	return stats
}

// Filter returns the subscribers whose email contains q, ignoring case.
// An empty q returns subs unchanged.
func Filter(subs []models.Subscriber, q string) []models.Subscriber {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return subs
	}
	out := make([]models.Subscriber, 0, len(subs))
	for _, s := range subs {
		if strings.Contains(strings.ToLower(s.Email), q) {
			out = append(out, s)
		}
	}
	return out
}

// Page is one page of a subscriber list.
type Page struct {
	Items      []models.Subscriber
	Number     int
	PerPage    int
	TotalPages int
	TotalItems int
}

// HasPrev reports whether there is a page before this one.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether there is a page after this one.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Paginate slices subs into pages of perPage items and returns page number,
// clamped to the available range.
func Paginate(subs []models.Subscriber, number, perPage int) Page {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	total := len(subs)
	pages := (total + perPage - 1) / perPage

	if number > pages {
		number = pages
	}
	if number < 1 {
		number = 1
	}

	p := Page{Number: number, PerPage: perPage, TotalPages: pages, TotalItems: total, Items: []models.Subscriber{}}
	if total == 0 {
		return p
	}
	start := (number - 1) * perPage
	end := min(start+perPage, total)
	p.Items = subs[start:end]
	return p
}
