package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/statlerhq/admincore/internal/admin/domain"
	"github.com/statlerhq/admincore/internal/admin/service"
	"github.com/statlerhq/admincore/internal/admin/store"
	"github.com/statlerhq/admincore/internal/admin/store/drivers/mysql"
	"github.com/statlerhq/admincore/internal/admin/store/drivers/sqlite"
	"github.com/statlerhq/admincore/pkg/cryptox"
	"github.com/statlerhq/admincore/pkg/idx"
	"github.com/statlerhq/admincore/pkg/slogx"
)

const buildVersion = "v0.1.0"

type provisionConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	File     string

	Email          string
	Username       string
	AdminPassword  string
	FirstName      string
	LastName       string
	Force          bool
	GeneratePasswd bool
}

func loadConfig(cmd *cobra.Command) provisionConfig {
	cfg := provisionConfig{
		Driver:   viper.GetString("db_driver"),
		Host:     viper.GetString("db_host"),
		Port:     viper.GetInt("db_port"),
		User:     viper.GetString("db_user"),
		Password: viper.GetString("db_password"),
		Database: viper.GetString("db_name"),
		File:     viper.GetString("db_file"),

		Email:         viper.GetString("email"),
		Username:      viper.GetString("username"),
		AdminPassword: viper.GetString("password"),
		FirstName:     viper.GetString("first_name"),
		LastName:      viper.GetString("last_name"),
	}

	// Flags win over the environment
	if v, _ := cmd.Flags().GetString("email"); v != "" {
		cfg.Email = v
	}
	if v, _ := cmd.Flags().GetString("username"); v != "" {
		cfg.Username = v
	}
	if v, _ := cmd.Flags().GetString("password"); v != "" {
		cfg.AdminPassword = v
	}
	if v, _ := cmd.Flags().GetString("first-name"); v != "" {
		cfg.FirstName = v
	}
	if v, _ := cmd.Flags().GetString("last-name"); v != "" {
		cfg.LastName = v
	}
	cfg.Force, _ = cmd.Flags().GetBool("force")
	cfg.GeneratePasswd, _ = cmd.Flags().GetBool("generate")

	return cfg
}

func runProvision(cmd *cobra.Command) error {
	logger := slogx.New(slogx.Config{
		Service: "admin-provision",
		Version: buildVersion,
		Env:     viper.GetString("env"),
		Level:   viper.GetString("log_level"),
		Format:  viper.GetString("log_format"),
	})

	runID := idx.New()
	ctx := slogx.WithRunID(slogx.WithContext(cmd.Context(), logger), runID.String())
	l := slogx.FromContext(ctx)

	cfg := loadConfig(cmd)

	generated := false
	if cfg.AdminPassword == "" {
		var err error
		cfg.AdminPassword, generated, err = resolvePassword(cfg.GeneratePasswd)
		if err != nil {
			l.Error("failed to obtain initial password", "error", err)
			return err
		}
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		l.Error("failed to open store", "error", err)
		return err
	}
	// Release the connection on every exit path
	defer func() {
		if cerr := st.Close(); cerr != nil {
			l.Warn("failed to close store", "error", cerr)
		}
	}()

	if err := st.Ping(ctx); err != nil {
		l.Error("store unreachable", "error", err)
		return err
	}

	svc := &service.ProvisionService{Store: st}
	outcome, err := svc.Provision(ctx, domain.ProvisionRequest{
		Email:       cfg.Email,
		Username:    cfg.Username,
		Password:    cfg.AdminPassword,
		FirstName:   cfg.FirstName,
		LastName:    cfg.LastName,
		ForceUpdate: cfg.Force,
	})
	if err != nil {
		var connErr *store.ConnectivityError
		var persErr *store.PersistenceError
		switch {
		case errors.As(err, &connErr):
			l.Error("store unreachable", "error", connErr.Err)
		case errors.As(err, &persErr):
			l.Error("store operation failed", "op", persErr.Op, "error", persErr.Err)
		default:
			l.Error("provisioning failed", "error", err)
		}
		return err
	}

	report(outcome, cfg, generated)
	return nil
}

// report writes the run's result to the operator's terminal. The plaintext
// password appears exactly once, on creation or generation, and never in the
// structured logs.
func report(outcome domain.ProvisionOutcome, cfg provisionConfig, generated bool) {
	switch outcome {
	case domain.OutcomeCreated:
		fmt.Printf("Created admin account %s (%s) with role super_admin.\n", cfg.Username, cfg.Email)
		if generated {
			fmt.Printf("Initial password: %s\n", cfg.AdminPassword)
			fmt.Println("Store it now; it will not be shown again.")
		} else {
			fmt.Printf("Initial password: %s\n", cfg.AdminPassword)
		}
	case domain.OutcomeExists:
		fmt.Printf("Admin account for %s already exists; no changes made.\n", cfg.Email)
		fmt.Println("Re-run with --force to rotate the password.")
	case domain.OutcomeRotated:
		fmt.Printf("Rotated password for admin account %s.\n", cfg.Email)
		if generated {
			fmt.Printf("New password: %s\n", cfg.AdminPassword)
		}
	}
}

// resolvePassword obtains an initial password when none was configured:
// either generated on request or prompted for (hidden, confirmed) when stdin
// is a terminal.
func resolvePassword(generate bool) (password string, generated bool, err error) {
	if generate {
		p, err := cryptox.GeneratePassword()
		if err != nil {
			return "", false, err
		}
		return p, true, nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", false, fmt.Errorf("no password configured and stdin is not a terminal; set ADMIN_PASSWORD or pass --generate")
	}

	fmt.Print("Password: ")
	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", false, fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Print("Confirm password: ")
	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(first) != string(second) {
		return "", false, fmt.Errorf("passwords do not match")
	}
	if len(first) == 0 {
		return "", false, fmt.Errorf("password must not be empty")
	}

	return string(first), false, nil
}

func openStore(ctx context.Context, cfg provisionConfig) (store.Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.Open(ctx, cfg.File)
	case "mysql":
		return mysql.Open(ctx, mysql.Config{
			Host:     cfg.Host,
			Port:     cfg.Port,
			User:     cfg.User,
			Password: cfg.Password,
			Database: cfg.Database,
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q (expected mysql or sqlite)", cfg.Driver)
	}
}
