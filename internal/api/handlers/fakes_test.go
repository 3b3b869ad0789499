package handlers

import (
	"context"
	"sync"

	"github.com/isdelr/waitlist-be/internal/models"
	"github.com/isdelr/waitlist-be/internal/services"
)

type fakeSubscribers struct {
	result services.SubscribeResult
	addErr error
	subs   []models.Subscriber
	getErr error
	added  []string
}

func (f *fakeSubscribers) AddSubscriber(_ context.Context, email string) (services.SubscribeResult, error) {
	f.added = append(f.added, email)
	return f.result, f.addErr
}

func (f *fakeSubscribers) GetSubscribers(context.Context) ([]models.Subscriber, error) {
	return f.subs, f.getErr
}

type fakeNotifier struct {
	mu     sync.Mutex
	emails []string
}

func (n *fakeNotifier) NotifySubscribed(email string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, email)
}

type fakePublisher struct {
	actions []string
}

func (p *fakePublisher) Publish(action string, _ interface{}) {
	p.actions = append(p.actions, action)
}

type fakeAdmins struct {
	admin models.AdminUser
	err   error
}

func (f *fakeAdmins) VerifyAdmin(context.Context, string, string) (models.AdminUser, error) {
	return f.admin, f.err
}

func (f *fakeAdmins) EnsureAdmin(context.Context, string, string) (bool, error) {
	return false, nil
}

type fakeEvents struct {
	events    []models.Event
	err       error
	lastLimit int
}

func (f *fakeEvents) CreateEvent(context.Context, string, string, string) error { return nil }

func (f *fakeEvents) GetRecentEvents(_ context.Context, limit int) ([]models.Event, error) {
	f.lastLimit = limit
	return f.events, f.err
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type fakeCounter int

func (c fakeCounter) PendingFallback() int { return int(c) }
