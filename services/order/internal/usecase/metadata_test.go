package usecase

import (
	"errors"
	"testing"

	"socialdesk/pkg/apperror"
	"socialdesk/services/order/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMetadata(t *testing.T) {
	meta, err := decodeMetadata(map[string]string{
		"order_id":   "ord-1",
		"package":    "Growth",
		"user_id":    "user-1",
		"tier_ids":   "t1, t2",
		"quantities": "1,3",
		"count":      "2",
	})
	require.NoError(t, err)

	assert.Equal(t, "ord-1", meta.OrderID)
	assert.Equal(t, []entity.LineItem{
		{ServiceTierID: "t1", Quantity: 1},
		{ServiceTierID: "t2", Quantity: 3},
	}, meta.Items)
}

func TestDecodeMetadata_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing user":    {"order_id": "o", "package": "p", "tier_ids": "t1"},
		"missing tiers":   {"order_id": "o", "package": "p", "user_id": "u"},
		"count mismatch":  {"order_id": "o", "package": "p", "user_id": "u", "tier_ids": "t1,t2", "count": "3"},
		"bad quantity":    {"order_id": "o", "package": "p", "user_id": "u", "tier_ids": "t1", "quantities": "zero"},
		"quantity length": {"order_id": "o", "package": "p", "user_id": "u", "tier_ids": "t1,t2", "quantities": "1"},
	}

	for name, md := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decodeMetadata(md)
			assert.True(t, errors.Is(err, apperror.ErrValidation))
		})
	}
}
