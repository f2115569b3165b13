package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/healthmate/healthmate-api/internal/config"
	"github.com/healthmate/healthmate-api/internal/domain"
	"github.com/healthmate/healthmate-api/internal/repository"
	"github.com/healthmate/healthmate-api/internal/service"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type adminOptions struct {
	email    string
	password string
	name     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts adminOptions

	cmd := &cobra.Command{
		Use:          "createadmin",
		Short:        "Create or promote a HealthMate administrator",
		Long:         "Creates an admin account, or promotes the existing account with the same email. Flags fall back to ADMIN_EMAIL, ADMIN_PASSWORD and ADMIN_NAME.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			opts.withDefaults(cfg.Admin)
			if opts.email == "" {
				return errors.New("an admin email is required (--email or ADMIN_EMAIL)")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
			if err != nil {
				return fmt.Errorf("failed to connect to MongoDB: %w", err)
			}
			defer client.Disconnect(context.Background())

			users := repository.NewMongoUserRepository(client.Database(cfg.MongoDB.Database))
			return ensureAdmin(ctx, cmd, users, opts)
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "admin email")
	cmd.Flags().StringVar(&opts.password, "password", "", "password for a newly created admin")
	cmd.Flags().StringVar(&opts.name, "name", "", "display name for a newly created admin")

	return cmd
}

func (o *adminOptions) withDefaults(admin config.AdminConfig) {
	if o.email == "" {
		o.email = admin.Email
	}
	if o.password == "" {
		o.password = admin.Password
	}
	if o.name == "" {
		o.name = admin.Name
	}
	if o.name == "" {
		o.name = "Administrator"
	}
	o.email = service.NormalizeEmail(o.email)
}

// ensureAdmin promotes an existing account in place; otherwise it creates one
func ensureAdmin(ctx context.Context, cmd *cobra.Command, users domain.UserRepository, opts adminOptions) error {
	existing, err := users.GetByEmail(ctx, opts.email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			cmd.Printf("%s is already an admin\n", opts.email)
			return nil
		}
		if err := users.UpdateRole(ctx, existing.ID, domain.RoleAdmin); err != nil {
			return err
		}
		cmd.Printf("promoted %s to admin\n", opts.email)
		return nil
	case !errors.Is(err, domain.ErrNotFound):
		return err
	}

	if len(opts.password) < 6 {
		return errors.New("a password of at least 6 characters is required to create a new admin")
	}
	hash, err := service.HashPassword(opts.password)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Name:         opts.name,
		Email:        opts.email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	cmd.Printf("created admin %s (%s)\n", opts.email, admin.ID)
	return nil
}
