package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/itemdata/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Hash string
}

type listResult struct {
	Instances []instanceSummary `json:"instances"`
}

type instanceSummary struct {
	ID       string `json:"id"`
	Revision int64  `json:"revision"`
	Size     int    `json:"size"`
	Hash     string `json:"hash"`
}

func (r listResult) String() string {
	if len(r.Instances) == 0 {
		return "No instances"
	}
	var sb strings.Builder
	for i, inst := range r.Instances {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s  rev %d  %d bytes  %s", inst.ID, inst.Revision, inst.Size, inst.Hash[:min(12, len(inst.Hash))])
	}
	return sb.String()
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored instances",
		Long: `List stored instances ordered by ID.

Example:
  itemdata list --db ./items.db
  itemdata list --db ./items.db --hash 3f1c...   # instances with identical data`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Hash, "hash", "", "only instances with this content hash")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var records []store.Record
	if opts.Hash != "" {
		records, err = s.repo.FindByHash(ctx, opts.Hash)
	} else {
		records, err = s.repo.List(ctx)
	}
	if err != nil {
		return s.out.Fail(ExitCommandError, ErrCodeReadFailed, "failed to list instances", err)
	}

	result := listResult{Instances: make([]instanceSummary, len(records))}
	for i, rec := range records {
		result.Instances[i] = instanceSummary{
			ID:       rec.ID.String(),
			Revision: rec.Revision,
			Size:     rec.Size,
			Hash:     rec.Hash,
		}
	}
	return s.out.Success(result)
}

type verifyResult struct {
	Checked  int            `json:"checked"`
	Findings []verifyDetail `json:"findings"`
}

type verifyDetail struct {
	ID      string `json:"id"`
	Problem string `json:"problem"`
}

func (r verifyResult) String() string {
	return fmt.Sprintf("✓ %d instance(s) verified", r.Checked)
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "verify",
		Short:         "Check stored data against its content hashes",
		Long:          "Decode every stored attachment and recompute its hash. Exits 1 when any instance fails.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			report, err := s.repo.Verify(ctx)
			if err != nil {
				return s.out.Fail(ExitCommandError, ErrCodeReadFailed, "failed to verify instances", err)
			}
			if !report.OK() {
				details := make([]verifyDetail, len(report.Findings))
				for i, f := range report.Findings {
					details[i] = verifyDetail{ID: f.RowID, Problem: f.Problem}
				}
				msg := fmt.Sprintf("%d of %d instance(s) failed verification", len(report.Findings), report.Checked)
				_ = s.out.Error(ErrCodeCorrupt, msg, details)
				return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", ErrCodeCorrupt, msg))
			}
			return s.out.Success(verifyResult{Checked: report.Checked, Findings: []verifyDetail{}})
		},
	}
}
