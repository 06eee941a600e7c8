package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
	"github.com/gigdesk/gigdesk/internal/workflow"
	"go.uber.org/zap"
)

var (
	ErrUnknownEmployer = errors.New("employer not found")
	ErrPending         = errors.New("a verification change for this employer is pending")
)

type API interface {
	ListEmployers(ctx context.Context) ([]api.EmployerProfile, error)
	SetEmployerVerified(ctx context.Context, employerID string, verified bool) (*api.EmployerProfile, error)
	SetEmployerVerification(ctx context.Context, employerID string, status api.VerificationStatus) (*api.EmployerProfile, error)
}

// Entry is an employer as shown to the admin. Pending is true while an
// optimistic value waits for the server.
type Entry struct {
	Profile api.EmployerProfile
	Pending bool
	State   workflow.State
}

// Verification applies verification changes optimistically: the new value is
// shown as pending, replaced by the server's profile on success and reverted
// to the previous value on failure.
type Verification struct {
	api API

	mu      sync.Mutex
	order   []string
	entries map[string]*Entry
}

func NewVerification(client API) *Verification {
	return &Verification{api: client, entries: map[string]*Entry{}}
}

func (v *Verification) Load(ctx context.Context) ([]Entry, error) {
	profiles, err := v.api.ListEmployers(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading employers: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.order = v.order[:0]
	v.entries = make(map[string]*Entry, len(profiles))
	for _, p := range profiles {
		v.order = append(v.order, p.Id)
		v.entries[p.Id] = &Entry{Profile: p, State: workflow.NewIdle()}
	}
	return v.snapshot(), nil
}

// Track adds or replaces a single employer without listing all of them.
func (v *Verification) Track(profile api.EmployerProfile) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.entries[profile.Id]; !ok {
		v.order = append(v.order, profile.Id)
	}
	v.entries[profile.Id] = &Entry{Profile: profile, State: workflow.NewIdle()}
}

func (v *Verification) Entries() []Entry {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot()
}

func (v *Verification) snapshot() []Entry {
	out := make([]Entry, 0, len(v.order))
	for _, id := range v.order {
		out = append(out, *v.entries[id])
	}
	return out
}

func (v *Verification) Get(employerID string) (Entry, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	e, ok := v.entries[employerID]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Toggle sets the verified flag of an employer.
func (v *Verification) Toggle(ctx context.Context, employerID string, verified bool) (*api.EmployerProfile, error) {
	return v.change(ctx, employerID,
		func(p *api.EmployerProfile) { p.Verified = verified },
		func(ctx context.Context) (*api.EmployerProfile, error) {
			return v.api.SetEmployerVerified(ctx, employerID, verified)
		})
}

// SetStatus moves an employer's verification request to status.
func (v *Verification) SetStatus(ctx context.Context, employerID string, status api.VerificationStatus) (*api.EmployerProfile, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid verification status %q", status)
	}
	return v.change(ctx, employerID,
		func(p *api.EmployerProfile) { p.VerificationStatus = status },
		func(ctx context.Context) (*api.EmployerProfile, error) {
			return v.api.SetEmployerVerification(ctx, employerID, status)
		})
}

func (v *Verification) change(ctx context.Context, employerID string, optimistic func(*api.EmployerProfile), call func(context.Context) (*api.EmployerProfile, error)) (*api.EmployerProfile, error) {
	v.mu.Lock()
	e, ok := v.entries[employerID]
	if !ok {
		v.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrUnknownEmployer, employerID)
	}
	if e.Pending {
		v.mu.Unlock()
		return nil, ErrPending
	}
	previous := e.Profile
	optimistic(&e.Profile)
	e.Pending = true
	e.State = workflow.NewInProgress()
	v.mu.Unlock()

	log := zap.S().Named("admin")

	updated, err := call(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		e.Profile = previous
		e.Pending = false
		e.State = workflow.NewFailed(err)
		log.Warnw("verification change reverted", "employer_id", employerID, "error", err)
		return nil, fmt.Errorf("updating employer %s: %w", employerID, err)
	}

	if updated.Id == "" {
		updated.Id = employerID
	}
	e.Profile = *updated
	e.Pending = false
	e.State = workflow.NewSucceeded()
	log.Infow("employer verification updated", "employer_id", employerID,
		"verified", updated.Verified, "verification_status", updated.VerificationStatus)
	return updated, nil
}
