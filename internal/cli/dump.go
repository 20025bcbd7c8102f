package cli

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/roach88/itemdata/internal/tag"
)

// dumpResult carries the root compound of one instance.
type dumpResult struct {
	ID   string          `json:"id"`
	Root json.RawMessage `json:"root"`
	snbt string
}

func (r dumpResult) String() string { return r.snbt }

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <id>",
		Short: "Print every entry of an instance",
		Long: `Print the root compound of an instance. Text output uses the
stringified tag form; JSON output embeds the canonical JSON of the tree.
An instance that never stored anything prints as {}. Canonical JSON has no
form for NaN or infinite doubles, so such instances dump as text only.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			inst, err := s.load(ctx, args[0])
			if err != nil {
				return err
			}
			root, ok := s.data.Root(inst)
			if !ok {
				root = tag.Compound{}
			}
			result := dumpResult{ID: inst.ID.String(), snbt: tag.Format(root)}
			if s.out.Format == "json" {
				result.Root, err = tag.MarshalCanonical(root)
				if err != nil {
					return s.out.Fail(ExitCommandError, ErrCodeGeneric, "failed to render instance", err)
				}
			}
			return s.out.Success(result)
		},
	}
}
