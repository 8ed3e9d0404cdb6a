package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/railbook/internal/catalog"
	"github.com/aalvaropc/railbook/internal/directory"
	"github.com/aalvaropc/railbook/internal/domain"
	"github.com/aalvaropc/railbook/internal/infra/datadir"
	"github.com/aalvaropc/railbook/internal/infra/jsonstore"
	"github.com/aalvaropc/railbook/internal/ledger"
	"github.com/aalvaropc/railbook/internal/ports"
	"github.com/aalvaropc/railbook/internal/reservation"
	"github.com/aalvaropc/railbook/internal/usecase"
)

// system is every component wired over the data files of one root. Unless
// opened read-only it holds the data directory lock until Close.
type system struct {
	root string
	cfg  domain.Config
	lock *datadir.RootLock

	trainFile *jsonstore.TrainFile
	userFile  *jsonstore.UserFile

	catalog   *catalog.Catalog
	ledger    *ledger.Ledger
	directory *directory.Directory

	accounts *usecase.Accounts
	trains   *usecase.Trains
	bookings *usecase.Bookings
}

type systemOptions struct {
	log          *slog.Logger
	readOnly     bool
	reservations ports.ReservationObserver
	accounts     ports.AccountObserver
	seats        ports.SeatObserver
}

type systemOption func(*systemOptions)

func withLogger(l *slog.Logger) systemOption {
	return func(o *systemOptions) { o.log = l }
}

// withReadOnly skips the data directory lock. The caller must not mutate.
func withReadOnly() systemOption {
	return func(o *systemOptions) { o.readOnly = true }
}

func withObservers(r ports.ReservationObserver, a ports.AccountObserver, s ports.SeatObserver) systemOption {
	return func(o *systemOptions) {
		o.reservations = r
		o.accounts = a
		o.seats = s
	}
}

// openSystem loads both data files in full. Any load failure is returned;
// callers treat it as fatal. A data directory locked by another process is
// refused with a storage error.
func openSystem(rootFlag string, opts ...systemOption) (sys *system, err error) {
	o := systemOptions{log: slog.New(slog.NewJSONHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	root, err := resolveRoot(rootFlag)
	if err != nil {
		return nil, err
	}

	// A root without railbook.yaml runs on the default layout.
	cfg, err := datadir.LoadConfig(root)
	if err != nil && !domain.IsKind(err, domain.KindNotFound) {
		return nil, err
	}

	var lock *datadir.RootLock
	if !o.readOnly {
		lock, err = datadir.AcquireLock(root, cfg)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err != nil {
				_ = lock.Release()
			}
		}()
	}

	trainFile := jsonstore.NewTrainFile(datadir.TrainsPath(root, cfg))
	userFile := jsonstore.NewUserFile(datadir.UsersPath(root, cfg))

	catOpts := []catalog.Option{catalog.WithLogger(o.log)}
	if o.seats != nil {
		catOpts = append(catOpts, catalog.WithSeatObserver(o.seats))
	}
	cat, err := catalog.Open(trainFile, catOpts...)
	if err != nil {
		return nil, err
	}

	users, tickets, err := userFile.LoadAccounts()
	if err != nil {
		return nil, err
	}
	led, err := ledger.New(userFile, tickets, ledger.WithLogger(o.log))
	if err != nil {
		return nil, err
	}
	dir, err := directory.New(userFile, users, directory.WithLogger(o.log))
	if err != nil {
		return nil, err
	}

	coordOpts := []reservation.Option{reservation.WithLogger(o.log)}
	if o.reservations != nil {
		coordOpts = append(coordOpts, reservation.WithObserver(o.reservations))
	}
	coord := reservation.New(cat, led, dir, coordOpts...)

	o.log.Info("system.opened",
		"root", root,
		"read_only", o.readOnly,
		"trains", len(cat.List()),
		"users", dir.Len(),
		"tickets", led.Len(),
	)

	return &system{
		root:      root,
		cfg:       cfg,
		lock:      lock,
		trainFile: trainFile,
		userFile:  userFile,
		catalog:   cat,
		ledger:    led,
		directory: dir,
		accounts: usecase.NewAccounts(dir,
			usecase.WithAccountsLogger(o.log),
			usecase.WithAccountObserver(o.accounts),
		),
		trains:   usecase.NewTrains(cat),
		bookings: usecase.NewBookings(coord, dir, led),
	}, nil
}

// Close releases the data directory lock.
func (s *system) Close() error {
	return s.lock.Release()
}

func resolveRoot(rootFlag string) (string, error) {
	r := strings.TrimSpace(rootFlag)
	if r != "" {
		abs, err := filepath.Abs(r)
		if err != nil {
			return "", fmt.Errorf("invalid root path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	root, err := datadir.NewFinder().FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("railbook root not found from %q (tip: run `railbook init`): %w", wd, err)
	}
	return root, nil
}
