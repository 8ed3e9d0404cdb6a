// Package directory owns user identities, credentials and each user's ordered
// list of ticket ids. The list is an index over the ledger kept in lockstep by
// the reservation coordinator.
package directory

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/aalvaropc/railbook/internal/domain"
	"github.com/aalvaropc/railbook/internal/platform/keylock"
	"github.com/aalvaropc/railbook/internal/ports"
)

type Directory struct {
	store ports.UserStore
	log   *slog.Logger
	newID func() string
	locks *keylock.Locker

	// signupMu makes the name check and the insert one step.
	signupMu sync.Mutex

	mu     sync.RWMutex
	users  map[string]domain.User
	byName map[string]string
}

type Option func(*Directory)

func WithLogger(l *slog.Logger) Option {
	return func(d *Directory) {
		if l != nil {
			d.log = l
		}
	}
}

// WithIDs overrides user id generation (useful for tests).
func WithIDs(gen func() string) Option {
	return func(d *Directory) { d.newID = gen }
}

// New builds a directory over previously persisted users.
func New(store ports.UserStore, loaded []domain.User, opts ...Option) (*Directory, error) {
	d := &Directory{
		store:  store,
		log:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
		newID:  uuid.NewString,
		locks:  keylock.New(),
		users:  make(map[string]domain.User, len(loaded)),
		byName: make(map[string]string, len(loaded)),
	}
	for _, opt := range opts {
		opt(d)
	}

	for _, u := range loaded {
		if _, dup := d.users[u.ID]; dup {
			return nil, corrupt("duplicate user id %q", u.ID)
		}
		if _, dup := d.byName[u.Name]; dup {
			return nil, corrupt("duplicate user name %q", u.Name)
		}
		d.users[u.ID] = u.Clone()
		d.byName[u.Name] = u.ID
	}
	return d, nil
}

// SignUp registers name with credential and returns the generated user id.
// Names are unique and compared case-sensitively.
func (d *Directory) SignUp(name, credential string) (string, error) {
	if strings.TrimSpace(name) == "" || credential == "" {
		return "", &domain.OpError{Op: "directory.signup", Kind: domain.KindValidation, Err: domain.ErrMissingFields}
	}

	d.signupMu.Lock()
	defer d.signupMu.Unlock()

	d.mu.RLock()
	_, taken := d.byName[name]
	d.mu.RUnlock()
	if taken {
		return "", &domain.OpError{
			Op:   "directory.signup",
			Kind: domain.KindConflict,
			Err:  fmt.Errorf("name %q: %w", name, domain.ErrNameTaken),
		}
	}

	u := domain.User{
		ID:         d.newID(),
		Name:       name,
		Credential: credential,
		TicketIDs:  []string{},
	}
	if err := d.store.SaveUser(u); err != nil {
		d.log.Error("directory.persist.failed", "op", "signup", "err", err)
		return "", err
	}

	d.mu.Lock()
	d.users[u.ID] = u
	d.byName[u.Name] = u.ID
	d.mu.Unlock()

	d.log.Info("directory.user.created", "user_id", u.ID)
	return u.ID, nil
}

// Authenticate returns the id of the user whose name and credential both match.
func (d *Directory) Authenticate(name, credential string) (string, error) {
	if strings.TrimSpace(name) == "" || credential == "" {
		return "", &domain.OpError{Op: "directory.authenticate", Kind: domain.KindValidation, Err: domain.ErrMissingFields}
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	id, ok := d.byName[name]
	if !ok || d.users[id].Credential != credential {
		return "", &domain.OpError{
			Op:   "directory.authenticate",
			Kind: domain.KindValidation,
			Err:  domain.ErrInvalidCredentials,
		}
	}
	return id, nil
}

// FindUser returns a copy of the user record.
func (d *Directory) FindUser(id string) (domain.User, error) {
	d.mu.RLock()
	u, ok := d.users[id]
	d.mu.RUnlock()
	if !ok {
		return domain.User{}, userNotFound("directory.find", id)
	}
	return u.Clone(), nil
}

// AddTicketRef appends ticketID to the user's list. Adding a ref that is
// already present is a no-op.
func (d *Directory) AddTicketRef(userID, ticketID string) error {
	return d.updateTickets("directory.add_ref", userID, func(u domain.User) (domain.User, bool) {
		if u.Owns(ticketID) {
			return u, false
		}
		u.TicketIDs = append(u.TicketIDs, ticketID)
		return u, true
	})
}

// RemoveTicketRef drops ticketID from the user's list. Removing a ref that is
// not present succeeds, so a retried cancellation is safe.
func (d *Directory) RemoveTicketRef(userID, ticketID string) error {
	return d.updateTickets("directory.remove_ref", userID, func(u domain.User) (domain.User, bool) {
		kept := u.TicketIDs[:0]
		for _, id := range u.TicketIDs {
			if id != ticketID {
				kept = append(kept, id)
			}
		}
		changed := len(kept) != len(u.TicketIDs)
		u.TicketIDs = kept
		return u, changed
	})
}

// Len returns the number of registered users.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}

func (d *Directory) updateTickets(op, userID string, mutate func(domain.User) (domain.User, bool)) error {
	unlock := d.locks.Lock(userID)
	defer unlock()

	cur, err := d.FindUser(userID)
	if err != nil {
		return &domain.OpError{Op: op, Kind: domain.KindNotFound, Err: err}
	}

	next, changed := mutate(cur)
	if !changed {
		return nil
	}

	if err := d.store.SaveUser(next); err != nil {
		d.log.Error("directory.persist.failed", "op", op, "user_id", userID, "err", err)
		return err
	}

	d.mu.Lock()
	d.users[userID] = next
	d.mu.Unlock()
	return nil
}

func userNotFound(op, id string) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindNotFound,
		Err:  fmt.Errorf("user %s: %w", id, domain.ErrUserNotFound),
	}
}

func corrupt(format string, args ...any) error {
	return &domain.OpError{
		Op:   "directory.new",
		Kind: domain.KindStorage,
		Err:  fmt.Errorf("%w: "+format, append([]any{domain.ErrStorage}, args...)...),
	}
}
