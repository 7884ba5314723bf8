package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func TestLedgerEntry_Validate(t *testing.T) {
	s := func(v string) *string { return &v }

	valid := []*entity.LedgerEntry{
		entity.NewInEntry("p", "A", 0),
		entity.NewInEntry("p", "A", 5),
		entity.NewOutEntry("p", "A", 1),
		entity.NewTransferEntry("p", "A", "B", 3),
		entity.NewTransferEntry("p", "A", "A", 3),
	}
	for _, e := range valid {
		assert.NoError(t, e.Validate(), "%+v", e)
	}

	invalid := []*entity.LedgerEntry{
		entity.NewInEntry("", "A", 1),
		entity.NewOutEntry("p", "A", 0),
		entity.NewTransferEntry("p", "A", "B", 0),
		entity.NewInEntry("p", "A", -1),
		{ProductID: "p", SourceStoreID: s("A"), TargetStoreID: s("B"), Quantity: 1, Type: entity.MovementTypeIN},
		{ProductID: "p", SourceStoreID: s("A"), TargetStoreID: s("B"), Quantity: 1, Type: entity.MovementTypeOUT},
		{ProductID: "p", TargetStoreID: s("B"), Quantity: 1, Type: entity.MovementTypeTRANSFER},
		{ProductID: "p", TargetStoreID: s("B"), Quantity: 1, Type: "ADJUST"},
	}
	for _, e := range invalid {
		assert.Error(t, e.Validate(), "%+v", e)
	}
}

func TestLedgerEntry_SignedDelta(t *testing.T) {
	in := entity.NewInEntry("p", "A", 5)
	out := entity.NewOutEntry("p", "A", 2)
	tr := entity.NewTransferEntry("p", "A", "B", 3)
	self := entity.NewTransferEntry("p", "A", "A", 3)

	assert.Equal(t, int64(5), in.SignedDelta("A"))
	assert.Equal(t, int64(0), in.SignedDelta("B"))
	assert.Equal(t, int64(-2), out.SignedDelta("A"))
	assert.Equal(t, int64(-3), tr.SignedDelta("A"))
	assert.Equal(t, int64(3), tr.SignedDelta("B"))
	assert.Equal(t, int64(0), self.SignedDelta("A"))

	assert.True(t, tr.Touches("A"))
	assert.True(t, tr.Touches("B"))
	assert.False(t, out.Touches("B"))
}

func TestBalanceKey_Order(t *testing.T) {
	a1 := entity.BalanceKey{StoreID: "A", ProductID: "1"}
	a2 := entity.BalanceKey{StoreID: "A", ProductID: "2"}
	b1 := entity.BalanceKey{StoreID: "B", ProductID: "1"}

	assert.True(t, a1.Less(a2))
	assert.True(t, a2.Less(b1))
	assert.False(t, b1.Less(a1))
	assert.False(t, a1.Less(a1))
	assert.Equal(t, "A/1", a1.String())
}

func TestBalance_IsLow(t *testing.T) {
	b := entity.NewBalance("A", "p")
	assert.True(t, b.IsLow(), "0 <= 0")
	b.Quantity = 3
	b.MinStock = 2
	assert.False(t, b.IsLow())
	b.MinStock = 3
	assert.True(t, b.IsLow())
}
