package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

type recordingCache struct{ invalidated []string }

func (c *recordingCache) Invalidate(_ context.Context, id string) {
	c.invalidated = append(c.invalidated, id)
}

func newProductUseCase() (*usecase.ProductUseCase, *recordingCache) {
	cache := &recordingCache{}
	return usecase.NewProductUseCase(memory.NewProductRepository(), cache), cache
}

func validRequest(sku string) dto.ProductRequest {
	return dto.ProductRequest{
		Name:     "Martillo",
		Category: "Herramientas",
		Price:    decimal.RequireFromString("19.90"),
		SKU:      sku,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Create / GetByID
// ─────────────────────────────────────────────────────────────────────────────

func TestProductUseCase_CreateAndGet(t *testing.T) {
	uc, cache := newProductUseCase()
	ctx := context.Background()

	created, err := uc.Create(ctx, validRequest("MRT-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{created.ID}, cache.invalidated)

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "MRT-1", got.SKU)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("19.9")))
}

func TestProductUseCase_CreateDuplicateSKU(t *testing.T) {
	uc, _ := newProductUseCase()
	ctx := context.Background()
	_, err := uc.Create(ctx, validRequest("MRT-1"))
	require.NoError(t, err)

	_, err = uc.Create(ctx, validRequest(" MRT-1 "))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductUseCase_CreateInvalid(t *testing.T) {
	uc, _ := newProductUseCase()
	req := validRequest("X")
	req.Price = decimal.Zero
	_, err := uc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = validRequest("  ")
	_, err = uc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_GetByID_NotFoundAndMalformed(t *testing.T) {
	uc, _ := newProductUseCase()
	_, err := uc.GetByID(context.Background(), "3f1c2a9e-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.GetByID(context.Background(), "no-es-uuid")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─────────────────────────────────────────────────────────────────────────────
// Update / Delete / List
// ─────────────────────────────────────────────────────────────────────────────

func TestProductUseCase_Update(t *testing.T) {
	uc, cache := newProductUseCase()
	ctx := context.Background()
	a, err := uc.Create(ctx, validRequest("A"))
	require.NoError(t, err)
	_, err = uc.Create(ctx, validRequest("B"))
	require.NoError(t, err)

	req := validRequest("A")
	req.Name = "Martillo de bola"
	updated, err := uc.Update(ctx, a.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Martillo de bola", updated.Name)
	assert.Contains(t, cache.invalidated, a.ID)

	// tomar el SKU de otro producto
	_, err = uc.Update(ctx, a.ID, validRequest("B"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Update(ctx, "3f1c2a9e-0000-4000-8000-000000000000", validRequest("C"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_DeleteAndList(t *testing.T) {
	uc, _ := newProductUseCase()
	ctx := context.Background()
	a, err := uc.Create(ctx, validRequest("A"))
	require.NoError(t, err)
	_, err = uc.Create(ctx, validRequest("B"))
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, a.ID))
	assert.ErrorIs(t, uc.Delete(ctx, a.ID), domain.ErrNotFound)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "B", list.Items[0].SKU)
	assert.Equal(t, 1, list.Page.Total)
	assert.Equal(t, 20, list.Page.Limit)
}
