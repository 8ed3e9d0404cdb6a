package tui

import (
	"github.com/aalvaropc/railbook/internal/domain"
)

func userMessage(err error) string {
	if err == nil {
		return ""
	}

	switch domain.CodeOf(err) {
	case domain.CodeMissingFields:
		return "Name and password are required"
	case domain.CodeNameTaken:
		return "That name is already registered"
	case domain.CodeInvalidCredentials:
		return "Wrong name or password"
	case domain.CodeInvalidUser:
		return "Your account no longer exists"
	case domain.CodeInvalidTrain, domain.CodeNotFound:
		return "Train not found"
	case domain.CodeNoSeatsAvailable:
		return "No seats left on this train"
	case domain.CodeTicketNotFound:
		return "Ticket already cancelled"
	case domain.CodeForbidden:
		return "That ticket belongs to someone else"
	case domain.CodeStorageUnavailable:
		return "Could not save changes (see logs)"
	case domain.CodeInvalidConfig:
		return "Invalid config"
	default:
		return "Unexpected error (see logs)"
	}
}
