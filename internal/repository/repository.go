// internal/repository/repository.go

// Package repository owns the prospecting collections: the user profile, the
// service catalog, discovered prospects, generated emails and logged calls.
// Every mutation is immediately mirrored to the persistent store as a full
// collection write; no batching and no write-ahead log. That trades write
// amplification for crash consistency, which is fine at user-scale volumes.
package repository

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"prospector/internal/common/logger"
	"prospector/internal/models"
	"prospector/internal/store"
)

type Repository struct {
	store  store.Store
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

// Option customizes a Repository. Tests use these to pin clock and ids.
type Option func(*Repository)

func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(r *Repository) { r.newID = newID }
}

func New(s store.Store, log logger.Logger, opts ...Option) *Repository {
	r := &Repository{
		store:  s,
		logger: log.With(map[string]interface{}{"component": "repository"}),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// --- Profile ---

func (r *Repository) Profile(ctx context.Context) models.Profile {
	return store.Load(ctx, r.store, r.logger, store.KeyProfile, models.Profile{})
}

// SetProfile replaces the profile wholesale. There is no history.
func (r *Repository) SetProfile(ctx context.Context, p models.Profile) {
	store.Save(ctx, r.store, r.logger, store.KeyProfile, p)
}

// --- Services ---

func (r *Repository) Services(ctx context.Context) []models.Service {
	return store.Load(ctx, r.store, r.logger, store.KeyServices, []models.Service{})
}

// AddService assigns an id, appends the service and persists the catalog.
func (r *Repository) AddService(ctx context.Context, name, description string) models.Service {
	svc := models.Service{
		ID:          r.newID(),
		Name:        name,
		Description: description,
	}
	services := append(r.Services(ctx), svc)
	store.Save(ctx, r.store, r.logger, store.KeyServices, services)
	return svc
}

// RemoveService drops the service with the given id. Historical emails keep
// their embedded service snapshots untouched.
func (r *Repository) RemoveService(ctx context.Context, id string) {
	services := r.Services(ctx)
	kept := services[:0]
	for _, s := range services {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	store.Save(ctx, r.store, r.logger, store.KeyServices, kept)
}

// ServiceByID looks up a catalog entry.
func (r *Repository) ServiceByID(ctx context.Context, id string) (models.Service, bool) {
	for _, s := range r.Services(ctx) {
		if s.ID == id {
			return s, true
		}
	}
	return models.Service{}, false
}

// --- Prospects ---

func (r *Repository) Prospects(ctx context.Context) []models.Prospect {
	return store.Load(ctx, r.store, r.logger, store.KeyProspects, []models.Prospect{})
}

// ProspectsByProbability returns the prospects sorted by hire probability
// descending. The sort is stable, so equal scores keep their stored order.
func (r *Repository) ProspectsByProbability(ctx context.Context) []models.Prospect {
	prospects := r.Prospects(ctx)
	sort.SliceStable(prospects, func(i, j int) bool {
		return prospects[i].HireProbability > prospects[j].HireProbability
	})
	return prospects
}

// AddProspects merges a batch into the stored collection by id: an incoming
// prospect replaces an existing one with the same id entirely, new ids are
// appended in batch order. Merging the same batch twice is idempotent.
func (r *Repository) AddProspects(ctx context.Context, batch []models.Prospect) []models.Prospect {
	merged := r.Prospects(ctx)
	index := make(map[string]int, len(merged))
	for i, p := range merged {
		index[p.ID] = i
	}

	for _, p := range batch {
		if i, ok := index[p.ID]; ok {
			merged[i] = p
			continue
		}
		index[p.ID] = len(merged)
		merged = append(merged, p)
	}

	store.Save(ctx, r.store, r.logger, store.KeyProspects, merged)
	return merged
}

// RemoveProspects deletes the prospects whose ids appear in the set.
func (r *Repository) RemoveProspects(ctx context.Context, ids map[string]bool) {
	prospects := r.Prospects(ctx)
	kept := prospects[:0]
	for _, p := range prospects {
		if !ids[p.ID] {
			kept = append(kept, p)
		}
	}
	store.Save(ctx, r.store, r.logger, store.KeyProspects, kept)
}

// GetProspectByID reads the authoritative persisted state, not a cached view,
// so independently-mounted views never see a stale prospect.
func (r *Repository) GetProspectByID(ctx context.Context, id string) (models.Prospect, bool) {
	for _, p := range r.Prospects(ctx) {
		if p.ID == id {
			return p, true
		}
	}
	return models.Prospect{}, false
}

// --- Generated emails ---

func (r *Repository) Emails(ctx context.Context) []models.GeneratedEmail {
	return store.Load(ctx, r.store, r.logger, store.KeyEmails, []models.GeneratedEmail{})
}

// AddEmail assigns id and creation time, prepends the email (newest first)
// and persists. Recipient and service are stored as full snapshots.
func (r *Repository) AddEmail(ctx context.Context, recipient models.Prospect, service models.Service, body string) models.GeneratedEmail {
	email := models.GeneratedEmail{
		ID:        r.newID(),
		Recipient: recipient,
		Service:   service,
		Body:      body,
		CreatedAt: r.now().UTC(),
	}
	emails := append([]models.GeneratedEmail{email}, r.Emails(ctx)...)
	store.Save(ctx, r.store, r.logger, store.KeyEmails, emails)
	return email
}

// RemoveEmails deletes the emails whose ids appear in the set.
func (r *Repository) RemoveEmails(ctx context.Context, ids map[string]bool) {
	emails := r.Emails(ctx)
	kept := emails[:0]
	for _, e := range emails {
		if !ids[e.ID] {
			kept = append(kept, e)
		}
	}
	store.Save(ctx, r.store, r.logger, store.KeyEmails, kept)
}

// --- Logged calls ---

func (r *Repository) Calls(ctx context.Context) []models.LoggedCall {
	return store.Load(ctx, r.store, r.logger, store.KeyCalls, []models.LoggedCall{})
}

// AddCall follows the same creation and newest-first contract as AddEmail.
func (r *Repository) AddCall(ctx context.Context, prospect models.Prospect, notes, outcome string) models.LoggedCall {
	call := models.LoggedCall{
		ID:        r.newID(),
		Prospect:  prospect,
		Notes:     notes,
		Outcome:   outcome,
		CreatedAt: r.now().UTC(),
	}
	calls := append([]models.LoggedCall{call}, r.Calls(ctx)...)
	store.Save(ctx, r.store, r.logger, store.KeyCalls, calls)
	return call
}

// RemoveCalls deletes the calls whose ids appear in the set.
func (r *Repository) RemoveCalls(ctx context.Context, ids map[string]bool) {
	calls := r.Calls(ctx)
	kept := calls[:0]
	for _, c := range calls {
		if !ids[c.ID] {
			kept = append(kept, c)
		}
	}
	store.Save(ctx, r.store, r.logger, store.KeyCalls, kept)
}
