package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/Abhay69095/Buildmart/internal/models"
	"github.com/Abhay69095/Buildmart/internal/storage"
)

func TestCreateOrder_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()
	user := &models.User{ID: "u1", Name: "Иван"}
	product := &models.Product{ID: "p1", Name: "Цемент М500", Price: 450.50}

	st.EXPECT().ProductByID(gomock.Any(), "p1").Return(product, nil)
	st.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o models.Order) (*models.Order, error) {
			o.ID = "o1"
			return &o, nil
		})
	st.EXPECT().SaveActivity(gomock.Any(), gomock.Any()).Return(nil)

	order, err := svc.CreateOrder(ctx, user, "p1", 3)
	require.NoError(t, err)
	require.Equal(t, "o1", order.ID)
	require.Equal(t, "u1", order.UserID)
	require.Equal(t, "Иван", order.CustomerName)
	require.Equal(t, "Цемент М500", order.ProductName)
	require.InDelta(t, 1351.5, order.Amount, 1e-9)
	require.Equal(t, models.OrderPending, order.Status)
}

func TestCreateOrder_ZeroQuantity(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	_, err := svc.CreateOrder(context.Background(), &models.User{ID: "u1"}, "p1", 0)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateOrder_ProductMissing(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().ProductByID(gomock.Any(), "ghost").Return(nil, storage.ErrNotFound)

	_, err := svc.CreateOrder(context.Background(), &models.User{ID: "u1"}, "ghost", 1)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateOrder_ActivityFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	product := &models.Product{ID: "p1", Name: "Кирпич", Price: 12}

	st.EXPECT().ProductByID(gomock.Any(), "p1").Return(product, nil)
	st.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
		Return(&models.Order{ID: "o1"}, nil)
	st.EXPECT().SaveActivity(gomock.Any(), gomock.Any()).
		Return(storage.ErrNotFound)

	// Аудит best-effort: сбой записи не ломает заказ.
	order, err := svc.CreateOrder(context.Background(), &models.User{ID: "u1"}, "p1", 1)
	require.NoError(t, err)
	require.Equal(t, "o1", order.ID)
}
