package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/norahairline/norahairline/internal/auth"
	"github.com/norahairline/norahairline/internal/config"
	"github.com/norahairline/norahairline/internal/database"
	"github.com/norahairline/norahairline/internal/prompt"
	"github.com/norahairline/norahairline/internal/store"
)

// bcrypt ignores input past 72 bytes, so longer secrets are refused outright.
const maxPasswordBytes = 72

// Options tune a single Bootstrap or Reset run.
type Options struct {
	// SampleCatalog seeds demo products in the same transaction as the admin row.
	SampleCatalog bool
}

// Result describes what a successful run created.
type Result struct {
	AdminID  int64
	Username string
	Location string
	Products int
}

// Service runs the operator workflows against the configured store.
type Service struct {
	cfg      *config.Config
	prompter prompt.Prompter
	hasher   *auth.PasswordHasher
	out      io.Writer
}

// NewService creates a Service. prompter may be nil when ADMIN_PASSWORD is always configured.
func NewService(cfg *config.Config, prompter prompt.Prompter, out io.Writer) (*Service, error) {
	cost := cfg.Admin.BcryptCost
	if cost == 0 {
		cost = auth.DefaultBcryptCost
	}
	hasher, err := auth.NewPasswordHasherWithCost(cost)
	if err != nil {
		return nil, fmt.Errorf("%w: BCRYPT_COST: %v", config.ErrConfiguration, err)
	}
	if out == nil {
		out = io.Discard
	}

	return &Service{
		cfg:      cfg,
		prompter: prompter,
		hasher:   hasher,
		out:      out,
	}, nil
}

// Bootstrap creates the schema if needed and inserts the configured administrator.
// The password is resolved before the store is opened.
func (s *Service) Bootstrap(ctx context.Context, opts Options) (*Result, error) {
	password, err := s.ResolvePassword(ctx)
	if err != nil {
		return nil, err
	}
	return s.seed(ctx, password, opts)
}

// Reset deletes the store and bootstraps a fresh one. If the store cannot be
// removed nothing is recreated.
func (s *Service) Reset(ctx context.Context, opts Options) (*Result, error) {
	password, err := s.ResolvePassword(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.destroy(ctx); err != nil {
		return nil, err
	}
	return s.seed(ctx, password, opts)
}

// ResolvePassword returns ADMIN_PASSWORD when set, otherwise prompts twice.
func (s *Service) ResolvePassword(ctx context.Context) (string, error) {
	if s.cfg.Admin.Password != "" {
		slog.Debug("using configured admin password")
		return checkPassword(s.cfg.Admin.Password)
	}

	if s.prompter == nil {
		return "", fmt.Errorf("%w: ADMIN_PASSWORD is not set and no prompt is available", config.ErrConfiguration)
	}

	first, err := s.prompter.ReadPassword(ctx, fmt.Sprintf("Password for admin %q: ", s.cfg.Admin.Username))
	if err != nil {
		return "", promptError(err)
	}
	second, err := s.prompter.ReadPassword(ctx, "Confirm password: ")
	if err != nil {
		return "", promptError(err)
	}

	if first != second {
		return "", ErrPasswordMismatch
	}
	return checkPassword(first)
}

func checkPassword(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("%w: admin password must not be empty", config.ErrConfiguration)
	}
	if len(p) > maxPasswordBytes {
		return "", fmt.Errorf("%w: admin password exceeds %d bytes", config.ErrConfiguration, maxPasswordBytes)
	}
	return p, nil
}

func promptError(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, io.EOF):
		return fmt.Errorf("%w: password prompt aborted", ErrInterrupted)
	case errors.Is(err, prompt.ErrNoTerminal):
		return fmt.Errorf("%w: ADMIN_PASSWORD is not set and stdin is not a terminal", config.ErrConfiguration)
	}
	return err
}

// seed ensures the schema and inserts the admin. Schema creation strictly
// precedes the insert; the admin row commits on its own.
func (s *Service) seed(ctx context.Context, password string, opts Options) (result *Result, err error) {
	defer func() {
		if err != nil && ctx.Err() != nil && !errors.Is(err, ErrInterrupted) {
			err = fmt.Errorf("%w: %v", ErrInterrupted, err)
		}
	}()

	username := s.cfg.Admin.Username

	db, err := database.Open(ctx, &s.cfg.DB)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	fmt.Fprintf(s.out, "📋 Ensuring schema at %s...\n", db.Location())
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, storageError(err)
	}

	fmt.Fprintln(s.out, "🔐 Hashing admin password...")
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrConfiguration, err)
	}

	result = &Result{Username: username, Location: db.Location()}

	fmt.Fprintf(s.out, "👤 Creating administrator %q...\n", username)
	err = db.WithTx(ctx, func(tx *sql.Tx) error {
		st := store.New(tx)

		id, err := st.InsertAdmin(ctx, username, hash)
		if err != nil {
			return err
		}
		result.AdminID = id

		if opts.SampleCatalog {
			fmt.Fprintln(s.out, "   📦 Creating sample catalog...")
			n, err := createSampleCatalog(ctx, st)
			if err != nil {
				return err
			}
			result.Products = n
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			return nil, fmt.Errorf("%w: %w", ErrDuplicateAdmin, err)
		}
		return nil, storageError(err)
	}

	slog.Info("administrator created", "username", username, "id", result.AdminID, "location", result.Location)
	return result, nil
}

func storageError(err error) error {
	if errors.Is(err, database.ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", database.ErrStorageUnavailable, err)
}

// destroy removes the store so that seed starts from empty.
func (s *Service) destroy(ctx context.Context) error {
	if s.cfg.DB.Driver == config.DriverMySQL {
		fmt.Fprintf(s.out, "🗑️  Dropping tables at %s...\n", s.cfg.DB.Location())
		db, err := database.Open(ctx, &s.cfg.DB)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrResetFailed, err)
		}
		defer db.Close()

		if err := db.DropSchema(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrResetFailed, err)
		}
		return nil
	}

	path := s.cfg.DB.Path
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}

	fmt.Fprintf(s.out, "🗑️  Removing %s...\n", path)
	// The main file goes first so a failure there leaves everything in place.
	for _, p := range []string{path, path + "-journal", path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %w", ErrResetFailed, err)
		}
	}
	return nil
}
