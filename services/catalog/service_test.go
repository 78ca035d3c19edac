package catalog

import (
	"testing"

	"elanis/database/repository/memory"
	"elanis/models"
	"elanis/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) (*DefaultCatalogService, string) {
	t.Helper()
	categories := memory.NewCategoryRepo()
	categoryID := uuid.New().String()
	categories.Seed(models.Category{ID: categoryID, Name: "Elder Care", IsActive: true})
	svc := &DefaultCatalogService{
		CategoryRepo: categories,
		PricingRepo:  memory.NewPricingRepo(),
		Logger:       zap.NewNop(),
	}
	return svc, categoryID
}

func TestCreateAndQuote(t *testing.T) {
	svc, categoryID := newService(t)

	price, err := svc.CreatePricing(models.CreatePricingInput{
		CategoryID:    categoryID,
		ShiftType:     models.ShiftTwelveHours,
		PricePerShift: 900,
	})
	require.NoError(t, err)
	assert.True(t, price.IsActive)

	quote, err := svc.GetQuote(categoryID, models.ShiftTwelveHours)
	require.NoError(t, err)
	assert.Equal(t, 900.0, quote.PricePerShift)

	_, err = svc.GetQuote(categoryID, models.ShiftThreeHours)
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindNotFound, svcErr.Kind)
}

func TestOneActivePricePerSlot(t *testing.T) {
	svc, categoryID := newService(t)

	first, err := svc.CreatePricing(models.CreatePricingInput{
		CategoryID:    categoryID,
		ShiftType:     models.ShiftThreeHours,
		PricePerShift: 250,
	})
	require.NoError(t, err)

	_, err = svc.CreatePricing(models.CreatePricingInput{
		CategoryID:    categoryID,
		ShiftType:     models.ShiftThreeHours,
		PricePerShift: 300,
	})
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindBadRequest, svcErr.Kind)

	// Retiring the active row frees the slot.
	require.NoError(t, svc.DeactivatePricing(first.ID))
	replacement, err := svc.CreatePricing(models.CreatePricingInput{
		CategoryID:    categoryID,
		ShiftType:     models.ShiftThreeHours,
		PricePerShift: 300,
	})
	require.NoError(t, err)

	quote, err := svc.GetQuote(categoryID, models.ShiftThreeHours)
	require.NoError(t, err)
	assert.Equal(t, replacement.ID, quote.ID)
	assert.Equal(t, 300.0, quote.PricePerShift)
}

func TestCreatePricingValidation(t *testing.T) {
	svc, categoryID := newService(t)

	_, err := svc.CreatePricing(models.CreatePricingInput{
		CategoryID:    categoryID,
		ShiftType:     "Overnight",
		PricePerShift: 100,
	})
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindBadRequest, svcErr.Kind)

	_, err = svc.CreatePricing(models.CreatePricingInput{
		CategoryID:    uuid.New().String(),
		ShiftType:     models.ShiftThreeHours,
		PricePerShift: 100,
	})
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindNotFound, svcErr.Kind)
}
