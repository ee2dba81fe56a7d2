// Package main is the applicant import CLI.
//
// It loads a form-export CSV straight into the database, and can bootstrap
// the first admin account so a fresh deployment is usable without touching
// SQL by hand:
//
//	importer -file applicants.csv
//	importer -bootstrap-admin admin@example.org -name "Ada Admin"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/onemoreday/scholarship-hub/config"
	"github.com/onemoreday/scholarship-hub/internal/application/command"
	"github.com/onemoreday/scholarship-hub/internal/domain/board"
	"github.com/onemoreday/scholarship-hub/internal/infrastructure/identity"
	"github.com/onemoreday/scholarship-hub/internal/infrastructure/persistence/postgres"
)

func main() {
	file := flag.String("file", "", "path to the applicants CSV export")
	bootstrapAdmin := flag.String("bootstrap-admin", "", "email of an admin account to create")
	name := flag.String("name", "", "display name for -bootstrap-admin")
	flag.Parse()

	if *file == "" && *bootstrapAdmin == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(context.Background(), *file, *bootstrapAdmin, *name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, file, bootstrapAdmin, name string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if file != "" {
		if err := importFile(ctx, conn, file); err != nil {
			return err
		}
	}

	if bootstrapAdmin != "" {
		if err := createAdmin(ctx, conn, bootstrapAdmin, name); err != nil {
			return err
		}
	}

	return nil
}

func importFile(ctx context.Context, conn *postgres.Connection, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	handler := command.NewImportApplicantsHandler(postgres.NewApplicantRepository(conn))
	result, err := handler.Handle(ctx, f)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("imported %d applicant(s)\n", result.Imported)
	for _, failure := range result.Failures {
		fmt.Printf("  row %d (%s): %s\n", failure.Row, failure.Email, failure.Reason)
	}
	return nil
}

func createAdmin(ctx context.Context, conn *postgres.Connection, email, name string) error {
	if name == "" {
		name = email
	}

	member, err := board.NewMember(email, name, true)
	if err != nil {
		return err
	}

	boardRepo := postgres.NewBoardRepository(conn)
	if err := boardRepo.Create(ctx, member); err != nil {
		return fmt.Errorf("failed to create board member: %w", err)
	}

	provider := identity.NewProvider(postgres.NewAccountRepository(conn))
	temp, err := provider.CreateAccount(ctx, member.Email)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	fmt.Printf("admin %s created, temporary password: %s\n", member.Email, temp)
	return nil
}
