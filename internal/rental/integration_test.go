//go:build integration
// +build integration

package rental

import (
	"os"
	"testing"

	"brickblock-backend/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestMint_Postgres_SameHolderTwoProperties runs against Postgres when DATABASE_URL_TEST is set.
// Run with: go test -tags=integration ./internal/rental/... -run Postgres -v
func TestMint_Postgres_SameHolderTwoProperties(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL_TEST")
	if dsn == "" {
		t.Skip("DATABASE_URL_TEST not set, skipping integration test")
	}
	db, err := database.Open(dsn)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	s := NewService(db, testCustody, []string{"https://", "ipfs://"})

	for i := 0; i < 20; i++ {
		holder := Actor{Address: "0xrace" + uuid.NewString()[:8]}
		mintTwoPropertiesOnOneAllowance(t, s, holder)
	}
}
