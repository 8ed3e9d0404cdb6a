package domain

// User is a registered traveller. TicketIDs is an ordered index of the tickets
// the ledger records as owned by this user.
type User struct {
	ID         string
	Name       string
	Credential string
	TicketIDs  []string
}

// Owns reports whether ticketID is in the user's ticket list.
func (u User) Owns(ticketID string) bool {
	for _, id := range u.TicketIDs {
		if id == ticketID {
			return true
		}
	}
	return false
}

// Clone returns a copy that does not share the ticket list.
func (u User) Clone() User {
	out := u
	out.TicketIDs = append([]string(nil), u.TicketIDs...)
	if out.TicketIDs == nil {
		out.TicketIDs = []string{}
	}
	return out
}
