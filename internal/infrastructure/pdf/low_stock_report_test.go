package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

func TestRenderLowStockReport_ProducesPDF(t *testing.T) {
	r := NewLowStockReportRenderer("")
	alerts := []dto.LowStockAlert{
		{ProductID: "p1", ProductName: "Martillo", SKU: "MRT-1", Price: decimal.RequireFromString("25000"), StoreID: "S1", Quantity: 0, MinStock: 5},
		{ProductID: "p2", ProductName: "Clavos", SKU: "CLV-2", Price: decimal.RequireFromString("1234.5"), StoreID: "S2", Quantity: 3, MinStock: 3},
	}
	doc, err := r.RenderLowStockReport(context.Background(), alerts, time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestRenderLowStockReport_EmptyList(t *testing.T) {
	doc, err := NewLowStockReportRenderer("Alertas").RenderLowStockReport(context.Background(), nil, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":        "0,00",
		"999":      "999,00",
		"25000":    "25.000,00",
		"1234.5":   "1.234,50",
		"1000000":  "1.000.000,00",
		"-4500.25": "-4.500,25",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}
