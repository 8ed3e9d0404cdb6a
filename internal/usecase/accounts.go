package usecase

import (
	"io"
	"log/slog"

	"github.com/aalvaropc/railbook/internal/domain"
	"github.com/aalvaropc/railbook/internal/ports"
)

// AccountDirectory registers and authenticates users.
type AccountDirectory interface {
	SignUp(name, credential string) (string, error)
	Authenticate(name, credential string) (string, error)
}

type Accounts struct {
	users    AccountDirectory
	log      *slog.Logger
	observer ports.AccountObserver
}

type AccountsOption func(*Accounts)

func WithAccountsLogger(l *slog.Logger) AccountsOption {
	return func(uc *Accounts) {
		if l != nil {
			uc.log = l
		}
	}
}

func WithAccountObserver(o ports.AccountObserver) AccountsOption {
	return func(uc *Accounts) {
		if o != nil {
			uc.observer = o
		}
	}
}

func NewAccounts(users AccountDirectory, opts ...AccountsOption) *Accounts {
	uc := &Accounts{
		users:    users,
		log:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
		observer: nopAccountObserver{},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// SignUp registers name and returns the new user id.
func (uc *Accounts) SignUp(name, credential string) (string, error) {
	id, err := uc.users.SignUp(name, credential)
	uc.observer.ObserveSignup(outcome(err))
	if err != nil {
		uc.log.Info("accounts.signup.refused", "name", name, "code", domain.CodeOf(err))
		return "", err
	}
	uc.log.Info("accounts.signup.ok", "user_id", id)
	return id, nil
}

// Login returns the user id for a matching name and credential.
func (uc *Accounts) Login(name, credential string) (string, error) {
	id, err := uc.users.Authenticate(name, credential)
	uc.observer.ObserveLogin(outcome(err))
	if err != nil {
		uc.log.Info("accounts.login.refused", "name", name, "code", domain.CodeOf(err))
		return "", err
	}
	return id, nil
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return string(domain.CodeOf(err))
}

type nopAccountObserver struct{}

func (nopAccountObserver) ObserveSignup(string) {}
func (nopAccountObserver) ObserveLogin(string)  {}
