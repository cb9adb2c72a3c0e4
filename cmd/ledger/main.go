// Command ledger runs the transaction store operations from a shell.
//
//	ledger add 12.50 coffee
//	ledger list
//	ledger get 17
//	ledger delete 17
//	ledger delete-all
//
// Connection settings come from DB_HOST, DB_PORT, DB_USER, DB_PWD and
// DB_DATABASE (a .env file in the working directory is read too).
// Every command prints one JSON document on stdout. A store failure is
// reported inside that document and still exits 0; bad arguments exit 1.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/deppfellow/ledger/internal/app"
	"github.com/deppfellow/ledger/internal/config"
	"github.com/deppfellow/ledger/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, loadApp).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func loadApp() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.Observability)
	return app.New(&cfg, &log), nil
}
