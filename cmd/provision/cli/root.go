package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Execute builds the command tree and runs it. Errors are logged by the run
// function; the caller only needs the non-zero exit.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Provision the administrative account",
		Long: `Provision idempotently ensures an admin account exists with a securely
hashed password. It creates the admins table when absent, inserts a
super_admin account for the configured email when none exists, and with
--force rotates the password of an existing account.

Configuration comes from ADMIN_* environment variables (a .env file in the
working directory is honored); flags override the environment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProvision(cmd)
		},
	}

	cmd.Flags().Bool("force", false, "rotate the password of an existing account")
	cmd.Flags().Bool("generate", false, "generate a random initial password and report it once")
	cmd.Flags().String("email", "", "administrator email (env: ADMIN_EMAIL)")
	cmd.Flags().String("username", "", "administrator username (env: ADMIN_USERNAME)")
	cmd.Flags().String("password", "", "initial password (env: ADMIN_PASSWORD; prompted if unset)")
	cmd.Flags().String("first-name", "", "administrator first name (env: ADMIN_FIRST_NAME)")
	cmd.Flags().String("last-name", "", "administrator last name (env: ADMIN_LAST_NAME)")

	cobra.OnInitialize(initConfig)

	return cmd
}

func initConfig() {
	// A .env in the working directory is a convenience for local runs; its
	// absence is not an error.
	_ = godotenv.Load()

	viper.SetEnvPrefix("ADMIN")
	viper.AutomaticEnv()

	viper.SetDefault("db_driver", "mysql")
	viper.SetDefault("db_host", "127.0.0.1")
	viper.SetDefault("db_port", 3306)
	viper.SetDefault("db_user", "root")
	viper.SetDefault("db_file", "admin.db")
	viper.SetDefault("first_name", "")
	viper.SetDefault("last_name", "")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("env", "prod")
}
