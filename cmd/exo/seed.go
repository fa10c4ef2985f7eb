package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jurredr/exo-client-portal-sub000/internal/config"
	"github.com/Jurredr/exo-client-portal-sub000/internal/organization"
	"github.com/Jurredr/exo-client-portal-sub000/internal/project"
	"github.com/Jurredr/exo-client-portal-sub000/internal/stage"
	"github.com/Jurredr/exo-client-portal-sub000/internal/user"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed a demo organization, users, and projects",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	orgStore := organization.NewStore(pool)
	userStore := user.NewStore(pool)
	projectStore := project.NewStore(pool)

	// Check if seed has already run.
	existing, err := orgStore.List(ctx)
	if err != nil {
		return fmt.Errorf("checking existing organizations: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("demo data already exists, skipping seed")
		return nil
	}

	org, err := orgStore.Create(ctx, organization.CreateOrganizationInput{
		Name: "Bakkerij De Molen",
	})
	if err != nil {
		return fmt.Errorf("creating demo organization: %w", err)
	}
	slog.Info("created organization", "name", org.Name, "id", org.ID)

	adminEmail := "admin@" + cfg.Auth.AdminDomain
	admin, err := userStore.Create(ctx, user.CreateUserInput{
		Email:    adminEmail,
		Password: "changeme",
		Name:     "Studio Admin",
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	client, err := userStore.Create(ctx, user.CreateUserInput{
		Email:           "jan@demolen.nl",
		Password:        "changeme",
		Name:            "Jan Bakker",
		OrganizationIDs: []string{org.ID},
	})
	if err != nil {
		return fmt.Errorf("creating client user: %w", err)
	}

	deadline := time.Now().AddDate(0, 2, 0)
	p, err := projectStore.Create(ctx, project.CreateProjectInput{
		Title:          "Webshop De Molen",
		Kind:           stage.KindClient,
		Subtotal:       "4500",
		OrganizationID: org.ID,
		Deadline:       &deadline,
	})
	if err != nil {
		return fmt.Errorf("creating demo project: %w", err)
	}

	_, err = projectStore.Create(ctx, project.CreateProjectInput{
		Title:          "Exo Labs Prototype",
		Kind:           stage.KindInternal,
		Subtotal:       "0",
		OrganizationID: org.ID,
	})
	if err != nil {
		return fmt.Errorf("creating internal project: %w", err)
	}

	slog.Info("created demo users and projects")
	fmt.Printf("\n=== Demo Data Seeded ===\n")
	fmt.Printf("Organization: %s (%s)\n", org.Name, org.ID)
	fmt.Printf("Admin:        %s / changeme\n", admin.Email)
	fmt.Printf("Client:       %s / changeme\n", client.Email)
	fmt.Printf("Project:      %s (%s)\n", p.Title, p.ID)
	fmt.Printf("\nTry it:\n")
	fmt.Printf("  curl -X POST http://localhost:8080/api/v1/auth/login -d '{\"email\":\"%s\",\"password\":\"changeme\"}'\n", admin.Email)

	return nil
}
