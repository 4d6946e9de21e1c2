package admin_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/statlerhq/admincore/internal/admin/domain"
	"github.com/statlerhq/admincore/internal/admin/service"
	"github.com/statlerhq/admincore/internal/admin/store/drivers/mysql"
	"github.com/statlerhq/admincore/pkg/cryptox"
)

// setupMySQLContainer starts a disposable MySQL server and returns a store
// config pointed at it.
func setupMySQLContainer(t *testing.T) mysql.Config {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8.4",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "e2e-root-pw",
			"MYSQL_DATABASE":      "appdb",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").
			WithStartupTimeout(3 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "3306")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return mysql.Config{
		Host:     host,
		Port:     mappedPort.Int(),
		User:     "root",
		Password: "e2e-root-pw",
		Database: "appdb",
	}
}

func TestProvisionAgainstMySQL(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	cfg := setupMySQLContainer(t)

	st, err := mysql.Open(ctx, cfg)
	require.NoError(t, err)
	defer st.Close()

	exists, err := st.AdminTableExists(ctx)
	require.NoError(t, err)
	require.False(t, exists)

	svc := &service.ProvisionService{Store: st}

	// First run creates schema and account
	outcome, err := svc.Provision(ctx, domain.ProvisionRequest{
		Email:    adminEmail,
		Username: adminUsername,
		Password: adminPassword,
	})
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeCreated, outcome)

	exists, err = st.AdminTableExists(ctx)
	require.NoError(t, err)
	require.True(t, exists)

	acc, err := st.Admins().GetByEmail(ctx, adminEmail)
	require.NoError(t, err)
	require.Equal(t, domain.RoleSuperAdmin, acc.Role)
	require.True(t, acc.Active)
	require.NoError(t, cryptox.VerifyPassword(adminPassword, acc.PasswordHash))

	// Second run without force is a no-op
	outcome, err = svc.Provision(ctx, domain.ProvisionRequest{
		Email:    adminEmail,
		Username: adminUsername,
		Password: "Different@111",
	})
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeExists, outcome)

	count, err := st.Admins().CountByEmail(ctx, adminEmail)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	// Force rotates
	outcome, err = svc.Provision(ctx, domain.ProvisionRequest{
		Email:       adminEmail,
		Username:    adminUsername,
		Password:    "Rotated@999",
		ForceUpdate: true,
	})
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeRotated, outcome)

	acc, err = st.Admins().GetByEmail(ctx, adminEmail)
	require.NoError(t, err)
	require.NoError(t, cryptox.VerifyPassword("Rotated@999", acc.PasswordHash))
}

func TestMySQLConnectivityError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Nothing listens here
	_, err := mysql.Open(ctx, mysql.Config{
		Host:     "127.0.0.1",
		Port:     1,
		User:     "root",
		Password: "nope",
		Database: "appdb",
	})
	require.Error(t, err)
	requireConnectivityError(t, err)
}
