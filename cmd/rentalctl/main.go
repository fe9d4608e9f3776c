package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"rentalmanager/internal/reservation"
	"rentalmanager/internal/user"
	"rentalmanager/internal/vehicle"
	"rentalmanager/pkg/config"
	"rentalmanager/pkg/db"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rentalctl",
		Short: "Admin CLI for the rental manager backend",
		Long: `rentalctl runs operational tasks against the rental manager database:
schema migrations, development seed data, and reconciliation of vehicle
availability statuses against the reservation data.`,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(reconcileCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.MigrationsPath == "" {
				cfg.MigrationsPath = "file://migrations"
			}
			if err := db.Migrate(cfg.MigrationsPath, cfg); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Println("migrations applied")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var adminEmail, adminPassword string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert a development admin user and sample fleet data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			ctx := cmd.Context()

			pool, err := db.Open(ctx, cfg)
			if err != nil {
				return fmt.Errorf("db open: %w", err)
			}
			defer pool.Close()

			salt, err := user.GenerateSaltHex()
			if err != nil {
				return err
			}
			hash, err := user.HashPassword(adminPassword, salt)
			if err != nil {
				return err
			}

			const qUser = `
INSERT INTO users (email, full_name, role, password_hash, password_salt)
VALUES ($1, 'Administrator', 'admin', $2, $3)
ON CONFLICT (email) DO NOTHING
`
			if _, err := pool.Exec(ctx, qUser, adminEmail, hash, salt); err != nil {
				return fmt.Errorf("seed user: %w", err)
			}

			const qVehicles = `
INSERT INTO vehicles (license_plate, brand, model, year, mileage, daily_rate, status)
VALUES
  ('AB-123-C', 'Toyota', 'Corolla', 2022, 41200, 45.00, 'available'),
  ('DE-456-F', 'Volkswagen', 'Transporter', 2020, 98100, 75.00, 'available'),
  ('GH-789-I', 'Renault', 'Clio', 2023, 12400, 39.50, 'available')
ON CONFLICT (license_plate) DO NOTHING
`
			if _, err := pool.Exec(ctx, qVehicles); err != nil {
				return fmt.Errorf("seed vehicles: %w", err)
			}

			const qCustomers = `
INSERT INTO customers (full_name, email, phone)
VALUES
  ('Jane Example', 'jane@example.com', '+31600000001'),
  ('John Sample', 'john@example.com', '+31600000002')
ON CONFLICT (email) DO NOTHING
`
			if _, err := pool.Exec(ctx, qCustomers); err != nil {
				return fmt.Errorf("seed customers: %w", err)
			}

			fmt.Println("seed data inserted")
			return nil
		},
	}

	cmd.Flags().StringVar(&adminEmail, "admin-email", "admin@example.com", "email for the seeded admin user")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "changeme123", "password for the seeded admin user")
	return cmd
}

func reconcileCmd() *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Report (and optionally fix) drift between stored vehicle statuses and reservation data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			ctx := cmd.Context()

			pool, err := db.Open(ctx, cfg)
			if err != nil {
				return fmt.Errorf("db open: %w", err)
			}
			defer pool.Close()

			drift, err := reconcile(ctx, pool, apply)
			if err != nil {
				return err
			}
			if drift == 0 {
				fmt.Println("all vehicle statuses in sync")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "write the calculated status back instead of only reporting")
	return cmd
}

func reconcile(ctx context.Context, pool *pgxpool.Pool, apply bool) (int, error) {
	vehicles := vehicle.NewRepository(pool)
	reservations := reservation.NewRepository(pool)

	items, err := vehicles.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list vehicles: %w", err)
	}

	today := time.Now().Format(reservation.DateFormat)
	drift := 0
	for i := range items {
		v := &items[i]
		rs, err := reservations.ListByVehicle(ctx, v.ID)
		if err != nil {
			return drift, fmt.Errorf("list reservations for vehicle %d: %w", v.ID, err)
		}

		calculated := vehicle.CalculateCorrectStatus(vehicle.BuildStatusContext(v, rs, today))
		if calculated == v.Status {
			continue
		}
		drift++
		fmt.Printf("vehicle %d (%s): stored=%s calculated=%s\n", v.ID, v.LicensePlate, v.Status, calculated)

		if apply {
			const q = `UPDATE vehicles SET status = $1, updated_at = NOW() WHERE id = $2`
			if _, err := pool.Exec(ctx, q, string(calculated), v.ID); err != nil {
				return drift, fmt.Errorf("update vehicle %d: %w", v.ID, err)
			}
		}
	}
	return drift, nil
}
