package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/norahairline/norahairline/internal/config"
	"github.com/norahairline/norahairline/internal/database"
	"github.com/norahairline/norahairline/internal/store"
)

// Status summarises an existing store.
type Status struct {
	Driver   string
	Location string
	Counts   map[string]int64
	Admins   []string
}

// Status reports row counts for every table. It never creates the store.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	db, err := s.openExisting(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	present, err := db.TableNames(ctx)
	if err != nil {
		return nil, err
	}
	if missing := missingTables(present); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing tables %s", ErrNotBootstrapped, strings.Join(missing, ", "))
	}

	st := store.New(db)
	status := &Status{
		Driver:   db.Driver(),
		Location: db.Location(),
		Counts:   make(map[string]int64, len(database.Tables)),
	}
	for _, table := range database.Tables {
		n, err := st.CountRows(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotBootstrapped, err)
		}
		status.Counts[table] = n
	}

	admins, err := st.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range admins {
		status.Admins = append(status.Admins, a.Username)
	}
	return status, nil
}

func missingTables(present []string) []string {
	var missing []string
	for _, t := range database.Tables {
		if !slices.Contains(present, t) {
			missing = append(missing, t)
		}
	}
	return missing
}

// VerifyAdmin checks a password against the configured admin's stored hash.
func (s *Service) VerifyAdmin(ctx context.Context) (bool, error) {
	password := s.cfg.Admin.Password
	if password == "" {
		if s.prompter == nil {
			return false, fmt.Errorf("%w: ADMIN_PASSWORD is not set and no prompt is available", config.ErrConfiguration)
		}
		p, err := s.prompter.ReadPassword(ctx, fmt.Sprintf("Password for admin %q: ", s.cfg.Admin.Username))
		if err != nil {
			return false, promptError(err)
		}
		password = p
	}

	db, err := s.openExisting(ctx)
	if err != nil {
		return false, err
	}
	defer db.Close()

	admin, err := store.New(db).GetAdminByUsername(ctx, s.cfg.Admin.Username)
	if err != nil {
		if errors.Is(err, store.ErrAdminNotFound) {
			return false, err
		}
		return false, fmt.Errorf("%w: %v", ErrNotBootstrapped, err)
	}

	return s.hasher.Verify(password, admin.PasswordHash)
}

// openExisting opens the store without creating a SQLite file that is not there.
func (s *Service) openExisting(ctx context.Context) (*database.DB, error) {
	if s.cfg.DB.Driver != config.DriverMySQL && s.cfg.DB.Path != ":memory:" {
		if _, err := os.Stat(s.cfg.DB.Path); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist, run `nora bootstrap` first", ErrNotBootstrapped, s.cfg.DB.Path)
		}
	}
	return database.Open(ctx, &s.cfg.DB)
}
