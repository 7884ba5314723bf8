// migrate aplica las migraciones SQL embebidas sobre la base configurada (DB_* o DATABASE_URL).
//
// Uso: go run ./cmd/migrate [--timeout 2m] [--list]
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var timeout time.Duration
	var list bool

	flagSet := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	flagSet.DurationVar(&timeout, "timeout", 2*time.Minute, "tiempo máximo para aplicar todas las migraciones")
	flagSet.BoolVar(&list, "list", false, "solo listar las migraciones embebidas")
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if list {
		names, err := postgres.MigrationNames()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log); err != nil {
		return err
	}
	log.Info().Msg("migraciones aplicadas")
	return nil
}
