package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/metalworks/storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrderConcurrentRequestsNeverOversell(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer := seedCustomer(t, db, "order_concurrent@example.com")
	seedProduct(t, db, 7, "Iron Gate", "25.00", 5)

	const workers = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
		unknown   []error
	)
	input := buildOrderInput(t, customer.ID, "25.00", OrderItemInput{ProductID: 7, Quantity: 1, UnitPrice: mustMoney(t, "25.00")})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PlaceOrder(context.Background(), input)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrInsufficientStock):
				rejected++
			default:
				unknown = append(unknown, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, unknown)
	assert.Equal(t, 5, succeeded)
	assert.Equal(t, workers-5, rejected)
	assert.Equal(t, 0, productStock(t, db, 7))
	assert.EqualValues(t, 5, countRows(t, db, &models.Order{}))
	assert.EqualValues(t, 5, countRows(t, db, &models.OrderItem{}))
	assert.EqualValues(t, 5, countRows(t, db, &models.PaymentRecord{}))
}
