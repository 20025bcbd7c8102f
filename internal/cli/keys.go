package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/itemdata/internal/keys"
	"github.com/roach88/itemdata/internal/tag"
)

// RegistryOptions holds flags for commands that consult the key registry.
type RegistryOptions struct {
	*RootOptions
	Registry string
}

type keyInfo struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Elem        string `json:"elem,omitempty"`
	Description string `json:"description,omitempty"`
}

type keysResult struct {
	Keys []keyInfo `json:"keys"`
}

func (r keysResult) String() string {
	width := 0
	for _, k := range r.Keys {
		width = max(width, len(k.Name))
	}
	lines := make([]string, len(r.Keys))
	for i, k := range r.Keys {
		kind := k.Kind
		if k.Elem != "" {
			kind += "<" + k.Elem + ">"
		}
		lines[i] = strings.TrimRight(fmt.Sprintf("%-*s  %-15s %s", width, k.Name, kind, k.Description), " ")
	}
	return strings.Join(lines, "\n")
}

// NewKeysCommand creates the keys command.
func NewKeysCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RegistryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List known attachment keys",
		Long: `List the built-in attachment keys and their declared kinds, extended
by an optional registry file (.yaml, .yml or .cue).

Example:
  itemdata keys
  itemdata keys --registry ./extra-keys.cue --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Registry, "registry", "", "extra key definitions (.yaml, .yml or .cue)")

	return cmd
}

func runKeys(opts *RegistryOptions, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)
	registry, err := loadRegistry(opts.Registry)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeRegistry, "failed to load registry", err)
	}

	defs := registry.Defs()
	result := keysResult{Keys: make([]keyInfo, len(defs))}
	for i, d := range defs {
		info := keyInfo{Name: d.Name, Kind: d.Kind.String(), Description: d.Description}
		if d.Elem != tag.KindEnd {
			info.Elem = d.Elem.String()
		}
		result.Keys[i] = info
	}
	return out.Success(result)
}

type checkResult struct {
	ID         string      `json:"id"`
	Violations []violation `json:"violations"`
}

type violation struct {
	Key     string `json:"key"`
	Problem string `json:"problem"`
	Want    string `json:"want,omitempty"`
	Got     string `json:"got"`
}

func (r checkResult) String() string {
	return fmt.Sprintf("✓ %s matches the key registry", r.ID)
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RegistryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <id>",
		Short: "Check an instance against the key registry",
		Long: `Report entries that are not in the key registry or whose stored kind
differs from the declared one. Exits 1 when any entry violates the registry.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Registry, "registry", "", "extra key definitions (.yaml, .yml or .cue)")

	return cmd
}

func runCheck(opts *RegistryOptions, id string, cmd *cobra.Command) error {
	ctx := context.Background()
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	registry, err := loadRegistry(opts.Registry)
	if err != nil {
		return s.out.Fail(ExitCommandError, ErrCodeRegistry, "failed to load registry", err)
	}
	inst, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	root, _ := s.data.Root(inst)
	found := registry.Check(root)
	if len(found) == 0 {
		return s.out.Success(checkResult{ID: inst.ID.String(), Violations: []violation{}})
	}

	details := make([]violation, len(found))
	lines := make([]string, len(found))
	for i, v := range found {
		details[i] = toViolation(v)
		lines[i] = v.String()
	}
	s.out.VerboseLog("%s", strings.Join(lines, "\n"))
	msg := fmt.Sprintf("%d registry violation(s): %s", len(found), strings.Join(lines, "; "))
	_ = s.out.Error(ErrCodeCheckFailed, msg, details)
	return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", ErrCodeCheckFailed, msg))
}

func toViolation(v keys.Violation) violation {
	out := violation{Key: v.Key, Problem: v.Problem.String(), Got: v.Got.String()}
	if v.Want != tag.KindEnd {
		out.Want = v.Want.String()
	}
	return out
}
