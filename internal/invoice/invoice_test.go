package invoice

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	created := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	order := &model.Order{
		ID:        uuid.MustParse("5d2c7a90-1111-4222-8333-944445555666"),
		UserEmail: "ada@example.com",
		Price:     decimal.RequireFromString("45"),
		Status:    model.StatusPaid,
		CreatedAt: created,
		Products: []model.LineItem{
			{Title: "Shirt", Price: decimal.RequireFromString("20"), Quantity: 2,
				Options: []model.LineItemOption{{Title: "M", Quantity: 2}}},
			{Title: "Socks", Price: decimal.RequireFromString("2.5"), Quantity: 2, Options: []model.LineItemOption{}},
		},
	}

	now := created.Add(time.Hour)
	inv, err := Build(order, now)
	require.NoError(t, err)

	assert.Equal(t, "INV-20240309-5d2c7a90", inv.Number)
	assert.Equal(t, now, inv.IssuedAt)
	assert.Equal(t, "ada@example.com", inv.Customer)
	require.Len(t, inv.Lines, 2)
	assert.Equal(t, []string{"M"}, inv.Lines[0].Options)
	assert.True(t, decimal.RequireFromString("40").Equal(inv.Lines[0].Total))
	assert.True(t, decimal.RequireFromString("5").Equal(inv.Lines[1].Total))
	assert.True(t, decimal.RequireFromString("45").Equal(inv.Total))
	assert.True(t, strings.HasPrefix(inv.QRCode, "data:image/png;base64,"))
}

func TestQRCode_IsPNG(t *testing.T) {
	uri, err := QRCode("INV-1")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("\x89PNG")))
}
