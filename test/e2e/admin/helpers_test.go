package admin_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/statlerhq/admincore/internal/admin/store"
)

func requireConnectivityError(t *testing.T, err error) {
	t.Helper()

	var connErr *store.ConnectivityError
	require.ErrorAs(t, err, &connErr)
}
