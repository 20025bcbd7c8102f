package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/itemdata/internal/attach"
	"github.com/roach88/itemdata/internal/tag"
)

// entryResult is the output of commands that touch a single key.
type entryResult struct {
	ID      string `json:"id"`
	Key     string `json:"key"`
	Kind    string `json:"kind,omitempty"`
	Value   string `json:"value,omitempty"`
	SNBT    string `json:"snbt,omitempty"`
	Present *bool  `json:"present,omitempty"`
	Changed *bool  `json:"changed,omitempty"`
}

func (r entryResult) String() string {
	switch {
	case r.Present != nil:
		return fmt.Sprint(*r.Present)
	case r.Value != "":
		return r.Value
	case r.Changed != nil && *r.Changed:
		return fmt.Sprintf("updated %s", r.Key)
	default:
		return "unchanged"
	}
}

// NewOptions holds flags for the new command.
type NewOptions struct {
	*RootOptions
	Set []string
}

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create an empty instance",
		Long: `Create a new instance and print its ID.

Example:
  itemdata new --db ./items.db
  itemdata new --db ./items.db --set floatingticks=42 --set tool_enabled=1b`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(opts, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "initial entry as key=value (repeatable)")

	return cmd
}

func runNew(opts *NewOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	inst := attach.NewInstance()
	for _, kv := range opts.Set {
		key, text, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return s.out.Fail(ExitCommandError, ErrCodeInvalidArg, fmt.Sprintf("invalid --set %q: want key=value", kv), nil)
		}
		t, err := tag.Parse(text)
		if err != nil {
			return s.out.Fail(ExitCommandError, ErrCodeInvalidArg, fmt.Sprintf("invalid value for %q", key), err)
		}
		s.data.SetRaw(inst, key, t)
	}

	if _, err := s.save(ctx, inst); err != nil {
		return err
	}
	return s.out.Success(idResult{ID: inst.ID.String()})
}

type idResult struct {
	ID string `json:"id"`
}

func (r idResult) String() string { return r.ID }

// GetOptions holds flags for the get command.
type GetOptions struct {
	*RootOptions
	Kind string
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "get <id> <key>",
		Short: "Read one entry",
		Long: `Read one entry of an instance.

Without --kind the stored value is printed in the stringified tag form.
With --kind the value is decoded strictly as that kind; a stored value of
another kind is reported as a mismatch.

Kinds: ` + strings.Join(decoderNames(), ", ") + `

Example:
  itemdata get --db ./items.db 0190a7e2-... floatingticks --kind int
  itemdata get --db ./items.db 0190a7e2-... bound_global_pos --kind globalpos`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "", "decode as this kind")

	return cmd
}

func runGet(opts *GetOptions, id, key string, cmd *cobra.Command) error {
	ctx := context.Background()
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var decode decoder
	if opts.Kind != "" {
		d, ok := decoders[strings.ToLower(opts.Kind)]
		if !ok {
			return s.out.Fail(ExitCommandError, ErrCodeInvalidArg,
				fmt.Sprintf("unknown kind %q: must be one of %s", opts.Kind, strings.Join(decoderNames(), ", ")), nil)
		}
		decode = d
	}

	inst, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	t, ok := s.data.Raw(inst, key)
	if !ok {
		return s.out.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("key %q not present", key), nil)
	}

	result := entryResult{ID: inst.ID.String(), Key: key, Kind: t.Kind().String(), SNBT: tag.Format(t)}
	result.Value = result.SNBT
	if decode != nil {
		v, err := decode(t)
		if err != nil {
			return s.out.Fail(ExitFailure, ErrCodeKindMismatch, fmt.Sprintf("key %q does not hold %s", key, opts.Kind), err)
		}
		result.Kind = strings.ToLower(opts.Kind)
		result.Value = v
	}
	return s.out.Success(result)
}

// decoder renders a tag as the named kind, or fails.
type decoder func(tag.Tag) (string, error)

func decodeWith[T any](c attach.Codec[T]) decoder {
	return func(t tag.Tag) (string, error) {
		res := c.Decode(t)
		v, ok := res.Value()
		if !ok {
			return "", res.Err()
		}
		return fmt.Sprint(v), nil
	}
}

func rawKind(kind tag.Kind) decoder {
	return func(t tag.Tag) (string, error) {
		if tag.KindOf(t) != kind {
			return "", fmt.Errorf("%w: want %s, got %s", attach.ErrKindMismatch, kind, tag.KindOf(t))
		}
		return tag.Format(t), nil
	}
}

var decoders = map[string]decoder{
	"int":       decodeWith(attach.IntCodec),
	"double":    decodeWith(attach.DoubleCodec),
	"bool":      decodeWith(attach.BoolCodec),
	"string":    decodeWith(attach.StringCodec),
	"uuid":      decodeWith(attach.UUIDCodec),
	"list":      rawKind(tag.KindList),
	"compound":  rawKind(tag.KindCompound),
	"blockpos":  decodeWith(attach.BlockPosCodec),
	"globalpos": decodeWith(attach.GlobalPosCodec),
	"vec3":      decodeWith(attach.Vec3Codec),
	"item":      decodeWith(attach.ItemCodec),
}

func decoderNames() []string {
	names := make([]string, 0, len(decoders))
	for name := range decoders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewSetCommand creates the set command.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <id> <key> <value>",
		Short: "Write one entry",
		Long: `Write one entry of an instance. The value uses the stringified tag form
and replaces whatever the key held before, whatever its kind.

Example:
  itemdata set --db ./items.db 0190a7e2-... floatingticks 42
  itemdata set --db ./items.db 0190a7e2-... lavapos '{x:1,y:64,z:-2}'`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(rootOpts, args[0], args[1], args[2], cmd)
		},
	}

	return cmd
}

func runSet(opts *RootOptions, id, key, text string, cmd *cobra.Command) error {
	ctx := context.Background()
	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	t, err := tag.Parse(text)
	if err != nil {
		return s.out.Fail(ExitCommandError, ErrCodeInvalidArg, fmt.Sprintf("invalid value for %q", key), err)
	}
	inst, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	s.data.SetRaw(inst, key, t)
	changed, err := s.save(ctx, inst)
	if err != nil {
		return err
	}
	return s.out.Success(entryResult{ID: inst.ID.String(), Key: key, Kind: t.Kind().String(), Changed: &changed})
}

// NewHasCommand creates the has command.
func NewHasCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "has <id> <key>",
		Short:         "Report whether an entry exists",
		Args:          cobra.ExactArgs(2),
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
			present := s.data.Has(inst, args[1])
			return s.out.Success(entryResult{ID: inst.ID.String(), Key: args[1], Present: &present})
		},
	}
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <id> <key>",
		Short:         "Delete an entry",
		Long:          "Delete an entry. Removing a key that is not present is not an error.",
		Args:          cobra.ExactArgs(2),
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
			s.data.Remove(inst, args[1])
			changed, err := s.save(ctx, inst)
			if err != nil {
				return err
			}
			return s.out.Success(entryResult{ID: inst.ID.String(), Key: args[1], Changed: &changed})
		},
	}
}

// ToggleOptions holds flags for the toggle command.
type ToggleOptions struct {
	*RootOptions
	Default bool
}

// NewToggleCommand creates the toggle command.
func NewToggleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ToggleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "toggle <id> <key>",
		Short: "Flip a boolean entry",
		Long: `Flip a boolean entry and print the new value. A missing entry, or one
of another kind, is treated as --default before flipping.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Default, "default", false, "value assumed when the entry is absent")

	return cmd
}

func runToggle(opts *ToggleOptions, id, key string, cmd *cobra.Command) error {
	ctx := context.Background()
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	inst, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	value := s.data.ToggleBool(inst, key, opts.Default)
	changed, err := s.save(ctx, inst)
	if err != nil {
		return err
	}
	return s.out.Success(entryResult{
		ID:      inst.ID.String(),
		Key:     key,
		Kind:    tag.KindBool.String(),
		Value:   fmt.Sprint(value),
		Changed: &changed,
	})
}
