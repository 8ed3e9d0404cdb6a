package directory

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/aalvaropc/railbook/internal/domain"
)

type memUserStore struct {
	mu      sync.Mutex
	saved   map[string]domain.User
	saves   int
	failErr error
}

func newMemStore() *memUserStore {
	return &memUserStore{saved: map[string]domain.User{}}
}

func (m *memUserStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.saves++
	m.saved[u.ID] = u.Clone()
	return nil
}

func seqIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("u-%d", n)
	}
}

func newDirectory(t *testing.T, store *memUserStore, loaded ...domain.User) *Directory {
	t.Helper()
	d, err := New(store, loaded, WithIDs(seqIDs()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestSignUp_AssignsIDAndPersists(t *testing.T) {
	store := newMemStore()
	d := newDirectory(t, store)

	id, err := d.SignUp("alice", "pw1")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if id != "u-1" {
		t.Fatalf("expected generated id u-1, got %q", id)
	}
	if store.saved[id].Name != "alice" {
		t.Fatalf("expected user persisted")
	}
	u, err := d.FindUser(id)
	if err != nil {
		t.Fatalf("FindUser: %v", err)
	}
	if len(u.TicketIDs) != 0 || u.TicketIDs == nil {
		t.Fatalf("expected empty non-nil ticket list, got %v", u.TicketIDs)
	}
}

func TestSignUp_NameTaken(t *testing.T) {
	d := newDirectory(t, newMemStore())
	if _, err := d.SignUp("alice", "pw1"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	_, err := d.SignUp("alice", "pw2")
	if !errors.Is(err, domain.ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}
	if domain.CodeOf(err) != domain.CodeNameTaken {
		t.Fatalf("expected code name_taken, got %q", domain.CodeOf(err))
	}
}

func TestSignUp_NamesAreCaseSensitive(t *testing.T) {
	d := newDirectory(t, newMemStore())
	if _, err := d.SignUp("alice", "pw"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if _, err := d.SignUp("Alice", "pw"); err != nil {
		t.Fatalf("expected Alice to be distinct from alice, got %v", err)
	}
}

func TestSignUp_MissingFields(t *testing.T) {
	d := newDirectory(t, newMemStore())
	for _, c := range []struct{ name, cred string }{{"", "pw"}, {"  ", "pw"}, {"bob", ""}} {
		if _, err := d.SignUp(c.name, c.cred); !errors.Is(err, domain.ErrMissingFields) {
			t.Errorf("SignUp(%q,%q): expected ErrMissingFields, got %v", c.name, c.cred, err)
		}
	}
}

func TestSignUp_ConcurrentSameNameOnlyOneWins(t *testing.T) {
	d, err := New(newMemStore(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, taken := 0, 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.SignUp("carol", "pw")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrNameTaken) {
				taken++
			}
		}()
	}
	wg.Wait()

	if ok != 1 || taken != 19 {
		t.Fatalf("expected 1 ok / 19 taken, got %d / %d", ok, taken)
	}
}

func TestSignUp_StorageFailureRegistersNothing(t *testing.T) {
	store := newMemStore()
	store.failErr = domain.StorageError("test", "users.json", errors.New("EIO"))
	d := newDirectory(t, store)

	if _, err := d.SignUp("dave", "pw"); !domain.IsKind(err, domain.KindStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	store.failErr = nil
	if _, err := d.SignUp("dave", "pw"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	d := newDirectory(t, newMemStore())
	id, _ := d.SignUp("alice", "pw1")

	got, err := d.Authenticate("alice", "pw1")
	if err != nil || got != id {
		t.Fatalf("expected %q, got %q (%v)", id, got, err)
	}

	for _, c := range []struct{ name, cred string }{{"alice", "pw2"}, {"ALICE", "pw1"}, {"nobody", "pw1"}} {
		if _, err := d.Authenticate(c.name, c.cred); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("Authenticate(%q,%q): expected ErrInvalidCredentials, got %v", c.name, c.cred, err)
		}
	}
	if _, err := d.Authenticate("", ""); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestFindUser_NotFound(t *testing.T) {
	d := newDirectory(t, newMemStore())
	if _, err := d.FindUser("ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestTicketRefs_AddRemoveIdempotent(t *testing.T) {
	store := newMemStore()
	d := newDirectory(t, store)
	id, _ := d.SignUp("alice", "pw")

	for _, tk := range []string{"t1", "t2", "t1"} {
		if err := d.AddTicketRef(id, tk); err != nil {
			t.Fatalf("AddTicketRef(%s): %v", tk, err)
		}
	}
	u, _ := d.FindUser(id)
	if len(u.TicketIDs) != 2 || u.TicketIDs[0] != "t1" || u.TicketIDs[1] != "t2" {
		t.Fatalf("expected [t1 t2], got %v", u.TicketIDs)
	}

	if err := d.RemoveTicketRef(id, "t1"); err != nil {
		t.Fatalf("RemoveTicketRef: %v", err)
	}
	saves := store.saves
	if err := d.RemoveTicketRef(id, "t1"); err != nil {
		t.Fatalf("expected idempotent remove, got %v", err)
	}
	if store.saves != saves {
		t.Fatalf("expected no write for a no-op remove")
	}

	u, _ = d.FindUser(id)
	if len(u.TicketIDs) != 1 || u.TicketIDs[0] != "t2" {
		t.Fatalf("expected [t2], got %v", u.TicketIDs)
	}
	if store.saved[id].TicketIDs[0] != "t2" {
		t.Fatalf("expected persisted list [t2], got %v", store.saved[id].TicketIDs)
	}
}

func TestTicketRefs_UnknownUser(t *testing.T) {
	d := newDirectory(t, newMemStore())
	if err := d.AddTicketRef("ghost", "t1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestTicketRefs_StorageFailureLeavesListUnchanged(t *testing.T) {
	store := newMemStore()
	d := newDirectory(t, store)
	id, _ := d.SignUp("alice", "pw")

	store.failErr = domain.StorageError("test", "users.json", errors.New("EIO"))
	if err := d.AddTicketRef(id, "t1"); !domain.IsKind(err, domain.KindStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	u, _ := d.FindUser(id)
	if len(u.TicketIDs) != 0 {
		t.Fatalf("expected list unchanged, got %v", u.TicketIDs)
	}
}

func TestTicketRefs_ConcurrentAddsNotLost(t *testing.T) {
	d := newDirectory(t, newMemStore())
	id, _ := d.SignUp("alice", "pw")

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := d.AddTicketRef(id, fmt.Sprintf("t%d", i)); err != nil {
				t.Errorf("AddTicketRef: %v", err)
			}
		}(i)
	}
	wg.Wait()

	u, _ := d.FindUser(id)
	if len(u.TicketIDs) != 30 {
		t.Fatalf("expected 30 refs, got %d", len(u.TicketIDs))
	}
}

func TestNew_RejectsDuplicateNames(t *testing.T) {
	_, err := New(newMemStore(), []domain.User{{ID: "a", Name: "x"}, {ID: "b", Name: "x"}})
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}
