package jsonstore

import (
	"fmt"
	"sync"

	"github.com/aalvaropc/railbook/internal/domain"
	"github.com/aalvaropc/railbook/internal/ports"
)

type ticketRecord struct {
	TicketID    string `json:"ticketId"`
	UserID      string `json:"userId"`
	TrainID     string `json:"trainId"`
	TrainName   string `json:"trainName,omitempty"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	JourneyDate string `json:"journeyDate"`
}

type userRecord struct {
	UserID        string         `json:"userId"`
	Name          string         `json:"name"`
	Password      string         `json:"password"`
	TicketsBooked []ticketRecord `json:"ticketsBooked"`
}

// UserFile stores users with their tickets embedded under the owner.
type UserFile struct {
	path string

	mu          sync.Mutex
	userOrder   []string
	users       map[string]domain.User
	ticketOrder []string
	tickets     map[string]domain.Ticket
}

var (
	_ ports.AccountLoader = (*UserFile)(nil)
	_ ports.UserStore     = (*UserFile)(nil)
	_ ports.TicketStore   = (*UserFile)(nil)
)

func NewUserFile(path string) *UserFile {
	return &UserFile{
		path:    path,
		users:   map[string]domain.User{},
		tickets: map[string]domain.Ticket{},
	}
}

func (s *UserFile) Path() string { return s.path }

// LoadAccounts reads the file. Each user's ticket list is rebuilt from the
// tickets embedded under it, in file order.
func (s *UserFile) LoadAccounts() ([]domain.User, []domain.Ticket, error) {
	var recs []userRecord
	if err := readArray(s.path, &recs); err != nil {
		return nil, nil, err
	}

	users := make([]domain.User, 0, len(recs))
	var tickets []domain.Ticket
	for _, r := range recs {
		u := domain.User{
			ID:         r.UserID,
			Name:       r.Name,
			Credential: r.Password,
			TicketIDs:  make([]string, 0, len(r.TicketsBooked)),
		}
		for _, tr := range r.TicketsBooked {
			if tr.UserID == "" {
				tr.UserID = r.UserID
			}
			if tr.UserID != r.UserID {
				return nil, nil, domain.StorageError("jsonstore.load", s.path,
					fmt.Errorf("ticket %q owned by %q is embedded under user %q", tr.TicketID, tr.UserID, r.UserID))
			}
			tickets = append(tickets, fromTicketRecord(tr))
			u.TicketIDs = append(u.TicketIDs, tr.TicketID)
		}
		users = append(users, u)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.userOrder = make([]string, 0, len(users))
	s.users = make(map[string]domain.User, len(users))
	for _, u := range users {
		if _, dup := s.users[u.ID]; !dup {
			s.userOrder = append(s.userOrder, u.ID)
		}
		s.users[u.ID] = u.Clone()
	}
	s.ticketOrder = make([]string, 0, len(tickets))
	s.tickets = make(map[string]domain.Ticket, len(tickets))
	for _, t := range tickets {
		if _, dup := s.tickets[t.ID]; !dup {
			s.ticketOrder = append(s.ticketOrder, t.ID)
		}
		s.tickets[t.ID] = t
	}

	return users, tickets, nil
}

// SaveUser inserts or replaces u and rewrites the file.
func (s *UserFile) SaveUser(u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.users[u.ID]
	s.users[u.ID] = u.Clone()
	if !existed {
		s.userOrder = append(s.userOrder, u.ID)
	}

	if err := s.flushLocked(); err != nil {
		if existed {
			s.users[u.ID] = prev
		} else {
			delete(s.users, u.ID)
			s.userOrder = s.userOrder[:len(s.userOrder)-1]
		}
		return err
	}
	return nil
}

// SaveTicket inserts or replaces t under its owner and rewrites the file.
// The owner must already be stored.
func (s *UserFile) SaveTicket(t domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[t.UserID]; !ok {
		return domain.StorageError("jsonstore.save_ticket", s.path,
			fmt.Errorf("ticket %q references unknown user %q", t.ID, t.UserID))
	}

	prev, existed := s.tickets[t.ID]
	s.tickets[t.ID] = t
	if !existed {
		s.ticketOrder = append(s.ticketOrder, t.ID)
	}

	if err := s.flushLocked(); err != nil {
		if existed {
			s.tickets[t.ID] = prev
		} else {
			delete(s.tickets, t.ID)
			s.ticketOrder = s.ticketOrder[:len(s.ticketOrder)-1]
		}
		return err
	}
	return nil
}

// DeleteTicket removes the ticket and rewrites the file. Deleting an unknown
// ticket is a no-op.
func (s *UserFile) DeleteTicket(ticketID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.tickets[ticketID]
	if !ok {
		return nil
	}
	delete(s.tickets, ticketID)

	if err := s.flushLocked(); err != nil {
		s.tickets[ticketID] = prev
		return err
	}
	s.ticketOrder = removeID(s.ticketOrder, ticketID)
	return nil
}

func (s *UserFile) flushLocked() error {
	return writeArray(s.path, s.recordsLocked())
}

// recordsLocked embeds each user's tickets in the order of the user's ticket
// list, followed by any of their tickets the list does not reference yet.
func (s *UserFile) recordsLocked() []userRecord {
	byOwner := make(map[string][]string, len(s.users))
	for _, id := range s.ticketOrder {
		t, ok := s.tickets[id]
		if !ok {
			continue
		}
		byOwner[t.UserID] = append(byOwner[t.UserID], id)
	}

	recs := make([]userRecord, 0, len(s.userOrder))
	for _, uid := range s.userOrder {
		u := s.users[uid]
		rec := userRecord{
			UserID:        u.ID,
			Name:          u.Name,
			Password:      u.Credential,
			TicketsBooked: []ticketRecord{},
		}

		seen := make(map[string]bool, len(u.TicketIDs))
		for _, tid := range u.TicketIDs {
			t, ok := s.tickets[tid]
			if !ok || t.UserID != uid || seen[tid] {
				continue
			}
			seen[tid] = true
			rec.TicketsBooked = append(rec.TicketsBooked, toTicketRecord(t))
		}
		for _, tid := range byOwner[uid] {
			if seen[tid] {
				continue
			}
			rec.TicketsBooked = append(rec.TicketsBooked, toTicketRecord(s.tickets[tid]))
		}

		recs = append(recs, rec)
	}
	return recs
}

func toTicketRecord(t domain.Ticket) ticketRecord {
	return ticketRecord{
		TicketID:    t.ID,
		UserID:      t.UserID,
		TrainID:     t.TrainID,
		TrainName:   t.TrainName,
		Source:      t.Source,
		Destination: t.Destination,
		JourneyDate: t.BookingDate,
	}
}

func fromTicketRecord(r ticketRecord) domain.Ticket {
	return domain.Ticket{
		ID:          r.TicketID,
		UserID:      r.UserID,
		TrainID:     r.TrainID,
		TrainName:   r.TrainName,
		Source:      r.Source,
		Destination: r.Destination,
		BookingDate: r.JourneyDate,
	}
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
