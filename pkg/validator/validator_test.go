package validator_test

import (
	"testing"

	"github.com/jhoicas/stock-ledger/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string          `json:"name" validate:"required,notblank,max=10"`
	Price decimal.Decimal `json:"price" validate:"required,gt=0"`
	Count *int64          `json:"count" validate:"required,min=0"`
}

func TestValidateStruct_OK(t *testing.T) {
	n := int64(0)
	errs := validator.ValidateStruct(sample{Name: "ok", Price: decimal.RequireFromString("0.01"), Count: &n})
	assert.Nil(t, errs)
}

func TestValidateStruct_ReportsJSONNames(t *testing.T) {
	errs := validator.ValidateStruct(sample{Name: "   ", Price: decimal.NewFromInt(-1)})
	require.Len(t, errs, 3)

	byField := map[string]string{}
	for _, e := range errs {
		byField[e.Field] = e.Tag
	}
	assert.Equal(t, "notblank", byField["name"])
	assert.Equal(t, "gt", byField["price"])
	assert.Equal(t, "required", byField["count"])
}

func TestSummary(t *testing.T) {
	s := validator.Summary([]*validator.FieldError{
		{Field: "name", Tag: "required"},
		{Field: "price", Tag: "gt", Param: "0"},
	})
	assert.Equal(t, "name: required; price: gt=0", s)
}

func TestValidateStruct_NotBlankRegistered(t *testing.T) {
	type store struct {
		ID string `json:"storeId" validate:"notblank"`
	}
	assert.NotPanics(t, func() { validator.ValidateStruct(store{ID: "A"}) })
	assert.Nil(t, validator.ValidateStruct(store{ID: "A"}))

	errs := validator.ValidateStruct(store{ID: "\t "})
	require.Len(t, errs, 1)
	assert.Equal(t, "storeId", errs[0].Field)
	assert.Equal(t, "notblank", errs[0].Tag)
}
