package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/config"
	"github.com/cleared-dev/books/internal/gitops"
	"github.com/cleared-dev/books/internal/invoices"
)

func newInitCommand() *cobra.Command {
	var name string
	var entityType string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new books directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, name, entityType, !noGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&entityType, "entity-type", "proprietorship", "entity type")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not create a git repository")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, dir, name, entityType string, useGit bool) error {
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil {
		return fmt.Errorf("%s already contains %s", dir, config.FileName)
	}

	dirs := []string{
		"accounts",
		"vouchers",
		"invoices",
		"logs",
		"recon",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(name, entityType)
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	svc, err := accounts.NewService(accounts.DefaultGroups(), accounts.DefaultLedgers())
	if err != nil {
		return fmt.Errorf("building chart of accounts: %w", err)
	}
	if err := svc.Save(dir); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	f, err := os.Create(invoices.Path(dir))
	if err != nil {
		return fmt.Errorf("writing invoices: %w", err)
	}
	if err := invoices.WriteInvoices(f, nil); err != nil {
		f.Close()
		return fmt.Errorf("writing invoices: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing invoices: %w", err)
	}

	gitignore := "recon/*.db*\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !useGit || !gitops.Available() {
		fmt.Fprintf(out, "Initialized books at %s\n", dir)
		return nil
	}
	if err := gitops.Init(ctx, dir); err != nil {
		return err
	}
	hash, err := gitops.CommitAll(ctx, dir, "init: Initialize "+name, gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail})
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}
	fmt.Fprintf(out, "Initialized books at %s (%s)\n", dir, hash)
	return nil
}
