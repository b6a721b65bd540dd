package rental

import (
	"context"
	"testing"

	"brickblock-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddProperty(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	id, err := s.CurrentPropertyID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)

	p := addProperty(t, s, 50000, false)
	q := addProperty(t, s, 200000, true)
	assert.Equal(t, uint64(1), p.PropertyID)
	assert.Equal(t, uint64(2), q.PropertyID)
	assert.Equal(t, int64(50000)*unit, p.PriceScaled)
	assert.Equal(t, 0, p.AmountMinted)
	assert.Equal(t, int64(0), p.RentPool)
	assert.Equal(t, "0xadmin", p.CreatedBy)

	id, err = s.CurrentPropertyID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id)

	assert.Equal(t, []string{domain.EventPropertyMinted}, eventTypes(t, s.DB, p.PropertyID))
	assert.Equal(t, []string{domain.EventOffplanPropertyMinted}, eventTypes(t, s.DB, q.PropertyID))
}

func TestAddProperty_Rejections(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.AddProperty(ctx, alice, NewProperty{MetadataURI: "https://meta.brickblock.io/1.json", Price: 10})
	assert.ErrorIs(t, err, ErrUnauthorized)

	for _, uri := range []string{"", "   ", "http://meta.brickblock.io/1.json", "meta.json"} {
		_, err = s.AddProperty(ctx, admin, NewProperty{MetadataURI: uri, Price: 10})
		assert.ErrorIs(t, err, ErrInvalidMetadata, uri)
	}

	_, err = s.AddProperty(ctx, admin, NewProperty{MetadataURI: "https://meta.brickblock.io/1.json", Price: 0})
	assert.ErrorIs(t, err, ErrInvalidTerms)
	_, err = s.AddProperty(ctx, admin, NewProperty{MetadataURI: "https://meta.brickblock.io/1.json", Price: MaxPrice + 1})
	assert.ErrorIs(t, err, ErrInvalidTerms)

	id, err := s.CurrentPropertyID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)
}

func TestListPropertiesAndURI(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	addProperty(t, s, 100, false)
	addProperty(t, s, 100, true)
	addProperty(t, s, 100, false)

	all, err := s.ListProperties(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	normal, err := s.ListProperties(ctx, KindNormal)
	require.NoError(t, err)
	assert.Len(t, normal, 2)
	offplan, err := s.ListProperties(ctx, KindOffplan)
	require.NoError(t, err)
	require.Len(t, offplan, 1)
	assert.Equal(t, uint64(2), offplan[0].PropertyID)
	assert.Equal(t, "", offplan[0].NormalURI())
	assert.NotEmpty(t, offplan[0].OffplanURI())

	_, err = s.ListProperties(ctx, "sold")
	assert.ErrorIs(t, err, ErrInvalidTerms)

	uri, err := s.PropertyURI(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", uri)
	_, err = s.PropertyURI(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitRent(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	p := addProperty(t, s, 1000, false)
	fund(t, s, admin.Address, 2000*unit)

	_, err := s.SubmitRent(ctx, alice, p.PropertyID, unit)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = s.SubmitRent(ctx, admin, 99, unit)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.SubmitRent(ctx, admin, p.PropertyID, 0)
	assert.ErrorIs(t, err, ErrInvalidTerms)
	_, err = s.SubmitRent(ctx, admin, p.PropertyID, 3000*unit)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	got, err := s.SubmitRent(ctx, admin, p.PropertyID, 1500*unit)
	require.NoError(t, err)
	assert.Equal(t, 1500*unit, got.RentPool)
	got, err = s.SubmitRent(ctx, admin, p.PropertyID, 100*unit)
	require.NoError(t, err)
	assert.Equal(t, 1600*unit, got.RentPool)

	assert.Equal(t, 400*unit, balanceOf(t, s, admin.Address))
	assert.Equal(t, 1600*unit, balanceOf(t, s, testCustody))
	assert.Equal(t, 1600*unit, mustProperty(t, s, p.PropertyID).RentPool)
}

func TestSubmitRent_WithoutAllowanceIsInsufficientBalance(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	p := addProperty(t, s, 1000, false)
	require.NoError(t, creditOnly(s, admin.Address, 10*unit))

	_, err := s.SubmitRent(ctx, admin, p.PropertyID, unit)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, int64(0), mustProperty(t, s, p.PropertyID).RentPool)
	assert.Equal(t, 10*unit, balanceOf(t, s, admin.Address))
}
