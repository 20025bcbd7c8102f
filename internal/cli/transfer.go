package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/itemdata/internal/attach"
	"github.com/roach88/itemdata/internal/tag"
)

type transferResult struct {
	ID   string `json:"id"`
	File string `json:"file"`
	verb string
}

func (r transferResult) String() string {
	return fmt.Sprintf("%s %s %s", r.verb, r.ID, r.File)
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <id> <file>",
		Short: "Write an instance's attachment to a file",
		Long: `Write the whole attachment compound of an instance to a gzip-compressed
binary tag file. The root tag is named after the instance ID.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, args[0], args[1], cmd)
		},
	}
}

func runExport(opts *RootOptions, id, path string, cmd *cobra.Command) (err error) {
	ctx := context.Background()
	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	inst, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return s.out.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to create export file", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = s.out.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to close export file", cerr)
		}
	}()

	if err := tag.WriteCompressed(f, inst.ID.String(), inst.Attachment()); err != nil {
		return s.out.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write export file", err)
	}
	s.logger.Debug("instance exported", "id", inst.ID, "file", path)
	return s.out.Success(transferResult{ID: inst.ID.String(), File: path, verb: "exported"})
}

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	NewID bool
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load an exported attachment into the database",
		Long: `Read a file written by export and save it as an instance. The instance
keeps the ID recorded in the file unless --new-id is given; an existing
instance with that ID is overwritten.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.NewID, "new-id", false, "assign a fresh instance ID")

	return cmd
}

func runImport(opts *ImportOptions, path string, cmd *cobra.Command) error {
	ctx := context.Background()
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	f, err := os.Open(path)
	if err != nil {
		return s.out.Fail(ExitCommandError, ErrCodeReadFailed, "failed to open import file", err)
	}
	defer f.Close()

	name, t, err := tag.ReadCompressed(f)
	if err != nil {
		return s.out.Fail(ExitCommandError, ErrCodeReadFailed, "failed to read import file", err)
	}
	attachment, ok := t.(tag.Compound)
	if !ok {
		return s.out.Fail(ExitCommandError, ErrCodeInvalidArg,
			fmt.Sprintf("import file root is %s, want compound", tag.KindOf(t)), nil)
	}

	var inst *attach.Instance
	if opts.NewID {
		inst = attach.NewInstance()
		for k, v := range attachment {
			inst.Attachment().Put(k, v)
		}
	} else {
		id, err := uuid.Parse(name)
		if err != nil {
			return s.out.Fail(ExitCommandError, ErrCodeInvalidArg,
				fmt.Sprintf("import file names no instance id (%q); use --new-id", name), err)
		}
		inst = attach.RestoreInstance(id, attachment)
	}

	if _, err := s.save(ctx, inst); err != nil {
		return err
	}
	return s.out.Success(transferResult{ID: inst.ID.String(), File: path, verb: "imported"})
}
