package cmdutils

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mshando/marketplace-client/internal/business"
	"github.com/mshando/marketplace-client/pkg/marketplace"
)

// OutputFlag names the persistent flag selecting the result format.
const OutputFlag = "output"

// Done is printed by commands whose call returns no payload.
type Done struct {
	Message string `json:"message"`
}

// RunJob loads the configuration and runs fn as a job on behalf of cmd.
func RunJob(cmd *cobra.Command, buildInfo string, fn BusinessFunc) error {
	return Execute(cmd.Context(), cmd.CommandPath(), buildInfo, RunAsJob, fn)
}

// RunWithServices runs fn as a job against the configured services and prints
// the value it returns.
func RunWithServices[T any](cmd *cobra.Command, buildInfo string, fn func(context.Context, *business.Services) (T, error)) error {
	return RunJob(cmd, buildInfo, business.WithServices(func(ctx context.Context, svc *business.Services) error {
		v, err := fn(ctx, svc)
		if err != nil {
			return err
		}

		return PrintResult(cmd, v)
	}))
}

// PrintResult prints v in the format chosen with the output flag.
func PrintResult(cmd *cobra.Command, v any) error {
	format, err := cmd.Flags().GetString(OutputFlag)
	if err != nil {
		format = string(OutputJSON)
	}

	return Print(cmd.OutOrStdout(), OutputFormat(format), v)
}

// ParseID parses a positional numeric identifier.
func ParseID(name, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive number", name, s)
	}

	return id, nil
}

// IDCommand builds a command taking a single numeric id argument.
func IDCommand[T any](use, short, buildInfo string, fn func(context.Context, *business.Services, int64) (T, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ParseID("id", args[0])
			if err != nil {
				return err
			}

			return RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (T, error) {
				return fn(ctx, svc, id)
			})
		},
	}
}

// Paging holds the values of the page and size flags.
type Paging struct {
	Page int
	Size int
}

// AddPagingFlags registers the page and size flags on cmd.
func AddPagingFlags(cmd *cobra.Command) *Paging {
	p := &Paging{}
	cmd.Flags().IntVar(&p.Page, "page", marketplace.DefaultPage, "zero based page number")
	cmd.Flags().IntVar(&p.Size, "size", marketplace.DefaultSize, "page size")

	return p
}
