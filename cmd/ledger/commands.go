package main

import (
	"context"
	"io"
	"math"
	"strconv"

	"github.com/deppfellow/ledger/internal/app"
	"github.com/deppfellow/ledger/internal/lib/utils"
	"github.com/deppfellow/ledger/internal/service"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// result is implemented by every service result type.
type result interface {
	Payload() any
}

type operation func(ctx context.Context, store *service.TransactionStore) result

type cli struct {
	out    io.Writer
	build  func() (*app.App, error)
	pretty bool
}

func newRootCmd(out io.Writer, build func() (*app.App, error)) *cobra.Command {
	c := &cli{out: out, build: build}

	root := &cobra.Command{
		Use:          "ledger",
		Short:        "Record and inspect ledger transactions",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&c.pretty, "pretty", false, "indent JSON output")

	root.AddCommand(
		&cobra.Command{
			Use:   "add <amount> <description>",
			Short: "Insert a transaction and print its id",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				amount, err := parseAmount(args[0])
				if err != nil {
					return err
				}
				description := args[1]
				return c.run(cmd, func(ctx context.Context, s *service.TransactionStore) result {
					return s.Create(ctx, amount, description)
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Print every transaction ordered by id",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.run(cmd, func(ctx context.Context, s *service.TransactionStore) result {
					return s.List(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Print the transaction with the given id, as a list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return c.run(cmd, func(ctx context.Context, s *service.TransactionStore) result {
					return s.FindByID(ctx, id)
				})
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete the transaction with the given id",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return c.run(cmd, func(ctx context.Context, s *service.TransactionStore) result {
					return s.DeleteByID(ctx, id)
				})
			},
		},
		&cobra.Command{
			Use:   "delete-all",
			Short: "Delete every transaction",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.run(cmd, func(ctx context.Context, s *service.TransactionStore) result {
					return s.DeleteAll(ctx)
				})
			},
		},
	)

	return root
}

// run builds the app, executes op once and prints its payload.
func (c *cli) run(cmd *cobra.Command, op operation) error {
	a, err := c.build()
	if err != nil {
		return errors.Wrap(err, "failed to start ledger")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	defer a.Shutdown(context.WithoutCancel(ctx))

	res := op(ctx, a.Services.Transactions)
	if c.pretty {
		return utils.PrintJSON(c.out, res.Payload())
	}
	return utils.WriteJSON(c.out, res.Payload())
}

func parseAmount(s string) (float64, error) {
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Errorf("amount %q is not a number", s)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, errors.Errorf("amount %q is not a finite number", s)
	}
	return amount, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Errorf("id %q is not an integer", s)
	}
	return id, nil
}
