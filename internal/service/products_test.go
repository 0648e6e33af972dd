package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/Abhay69095/Buildmart/internal/models"
	"github.com/Abhay69095/Buildmart/internal/storage"
)

func validProduct() models.Product {
	return models.Product{
		Name:     "Цемент М500",
		Category: "Сухие смеси",
		Price:    450.50,
		Stock:    120,
	}
}

func TestCreateProduct_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	in := validProduct()
	st.EXPECT().CreateProduct(gomock.Any(), in).
		Return(&models.Product{ID: "p1", Name: in.Name}, nil)

	out, err := svc.CreateProduct(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, "p1", out.ID)
}

func TestCreateProduct_Validation(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	cases := []struct {
		name   string
		mutate func(*models.Product)
	}{
		{"empty name", func(p *models.Product) { p.Name = "  " }},
		{"empty category", func(p *models.Product) { p.Category = "" }},
		{"zero price", func(p *models.Product) { p.Price = 0 }},
		{"negative price", func(p *models.Product) { p.Price = -1 }},
		{"negative stock", func(p *models.Product) { p.Stock = -5 }},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in := validProduct()
			tc.mutate(&in)

			_, err := svc.CreateProduct(context.Background(), in)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestProductByID_NotFound(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().ProductByID(gomock.Any(), "ghost").Return(nil, storage.ErrNotFound)

	_, err := svc.ProductByID(context.Background(), "ghost")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	in := validProduct()
	st.EXPECT().UpdateProduct(gomock.Any(), "ghost", in).Return(nil, storage.ErrNotFound)

	_, err := svc.UpdateProduct(context.Background(), "ghost", in)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().DeleteProduct(gomock.Any(), "ghost").Return(storage.ErrNotFound)

	err := svc.DeleteProduct(context.Background(), "ghost")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNotFound)
}
