package service

import (
	"context"
	"testing"

	"food_app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCatalog(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	pho, err := s.products.Create(ctx, ProductInput{Name: "Pho bo", Price: dec("8.50"), Category: "Soup"})
	require.NoError(t, err)
	plain, err := s.products.Create(ctx, ProductInput{Name: "Spring roll", Price: dec("3")})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCategory, plain.Category)

	_, err = s.products.Create(ctx, ProductInput{Name: "Free", Price: dec("0")})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.products.Create(ctx, ProductInput{Name: "Fraction", Price: dec("1.005")})
	assert.ErrorIs(t, err, ErrValidation)

	all, err := s.products.List(ctx, "All", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	soups, err := s.products.List(ctx, "Soup", "")
	require.NoError(t, err)
	require.Len(t, soups, 1)
	assert.Equal(t, pho.ID, soups[0].ID)

	found, err := s.products.List(ctx, "", "roll")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, plain.ID, found[0].ID)

	updated, err := s.products.Update(ctx, pho.ID, ProductInput{Name: "Pho ga", Price: dec("9"), Category: "Soup"})
	require.NoError(t, err)
	assert.Equal(t, "Pho ga", updated.Name)
	assert.True(t, dec("9").Equal(updated.Price))

	_, err = s.products.Update(ctx, 9999, ProductInput{Name: "X", Price: dec("1")})
	assert.ErrorIs(t, err, ErrProductNotFound)

	require.NoError(t, s.products.Delete(ctx, pho.ID))
	assert.ErrorIs(t, s.products.Delete(ctx, pho.ID), ErrProductNotFound)
	_, err = s.products.FindByID(ctx, pho.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
