package rental

import (
	"context"
	"testing"

	"brickblock-backend/internal/domain"
	"brickblock-backend/internal/infrastructure/database"
	"brickblock-backend/internal/stablecoin"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testCustody = "brickblock:custody"
	unit        = domain.PriceScale
)

var (
	admin = Actor{Address: "0xadmin", Admin: true}
	alice = Actor{Address: "0xalice"}
	bob   = Actor{Address: "0xbob"}
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return NewService(db, testCustody, []string{"https://", "ipfs://"})
}

// fund credits holder and approves custody for the same amount.
func fund(t *testing.T, s *Service, holder string, amount int64) {
	t.Helper()
	ctx := context.Background()
	l := stablecoin.NewLedger(s.DB)
	require.NoError(t, l.Credit(ctx, holder, amount))
	allowance, err := l.Allowance(ctx, holder, testCustody)
	require.NoError(t, err)
	require.NoError(t, l.Approve(ctx, holder, testCustody, allowance+amount))
}

func balanceOf(t *testing.T, s *Service, holder string) int64 {
	t.Helper()
	b, err := stablecoin.NewLedger(s.DB).BalanceOf(context.Background(), holder)
	require.NoError(t, err)
	return b
}

func addProperty(t *testing.T, s *Service, price int64, offplan bool) *domain.Property {
	t.Helper()
	p, err := s.AddProperty(context.Background(), admin, NewProperty{
		MetadataURI: "ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
		Price:       price,
		Seed:        42,
		IsOffplan:   offplan,
	})
	require.NoError(t, err)
	return p
}

func mustProperty(t *testing.T, s *Service, id uint64) *domain.Property {
	t.Helper()
	p, err := s.GetProperty(context.Background(), id)
	require.NoError(t, err)
	return p
}

func eventTypes(t *testing.T, db *gorm.DB, propertyID uint64) []string {
	t.Helper()
	var evts []domain.LedgerEvent
	require.NoError(t, db.Where("property_id = ?", propertyID).Order(`"createdAt" ASC, rowid ASC`).Find(&evts).Error)
	out := make([]string, 0, len(evts))
	for _, e := range evts {
		out = append(out, e.EventType)
	}
	return out
}

// assertSupplyInvariant checks that holdings add up to amount_minted and stay within 100.
func assertSupplyInvariant(t *testing.T, s *Service, propertyID uint64) {
	t.Helper()
	p := mustProperty(t, s, propertyID)
	holders, err := s.Holders(context.Background(), propertyID)
	require.NoError(t, err)
	sum := 0
	seen := map[string]bool{}
	for _, h := range holders {
		require.False(t, seen[h.Holder], "holder %s listed twice", h.Holder)
		seen[h.Holder] = true
		sum += h.PercentOwned
	}
	require.Equal(t, p.AmountMinted, sum)
	require.GreaterOrEqual(t, p.AmountMinted, 0)
	require.LessOrEqual(t, p.AmountMinted, domain.MaxPercent)
}

func creditOnly(s *Service, holder string, amount int64) error {
	return stablecoin.NewLedger(s.DB).Credit(context.Background(), holder, amount)
}
