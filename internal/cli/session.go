package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/itemdata/internal/attach"
	"github.com/roach88/itemdata/internal/store"
)

// session bundles what a data command needs: output, logging, the
// repository and the attachment store.
type session struct {
	out    *OutputFormatter
	logger *slog.Logger
	repo   *store.Store
	data   *attach.Store
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// newLogger configures logging based on the verbose flag.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// openSession opens the database named by --db.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	out := newFormatter(opts, cmd)
	if opts.Database == "" {
		return nil, out.Fail(ExitCommandError, ErrCodeInvalidArg, "--db is required", nil)
	}
	logger := newLogger(opts, out.GetErrWriter())

	logger.Debug("opening database", "path", opts.Database)
	repo, err := store.Open(opts.Database, store.WithLogger(logger))
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeOpenFailed, "failed to open database", err)
	}
	return &session{
		out:    out,
		logger: logger,
		repo:   repo,
		data:   attach.New(attach.WithLogger(logger)),
	}, nil
}

func (s *session) Close() {
	if err := s.repo.Close(); err != nil {
		s.logger.Warn("failed to close database", "error", err)
	}
}

// load resolves an instance ID argument.
func (s *session) load(ctx context.Context, arg string) (*attach.Instance, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return nil, s.out.Fail(ExitCommandError, ErrCodeInvalidArg, fmt.Sprintf("invalid instance id %q", arg), err)
	}
	inst, err := s.repo.Load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, s.out.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("instance %s not found", id), nil)
	}
	if err != nil {
		return nil, s.out.Fail(ExitCommandError, ErrCodeReadFailed, "failed to load instance", err)
	}
	return inst, nil
}

// save persists inst and reports whether anything was written.
func (s *session) save(ctx context.Context, inst *attach.Instance) (bool, error) {
	changed, err := s.repo.Save(ctx, inst)
	if err != nil {
		return false, s.out.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to save instance", err)
	}
	s.out.VerboseLog("saved %s (changed=%t)", inst.ID, changed)
	return changed, nil
}
