package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/omnia/backend/internal/domain/finance"
	"github.com/omnia/backend/internal/domain/trade"
	"github.com/omnia/backend/internal/infrastructure/credentials"
)

func TestGormOrderProfitRepository_FindByOrderID(t *testing.T) {
	t.Run("finds existing profit row", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderProfitRepository(db)

		orderID := uuid.New()
		rows := sqlmock.NewRows([]string{
			"id", "order_id", "revenue", "product_cost", "net_profit",
			"final_status", "status",
		}).AddRow(uuid.New(), orderID, decimal.NewFromInt(1000), decimal.NewFromInt(300),
			decimal.NewFromInt(550), "DELIVERED", "computed")

		mock.ExpectQuery(`SELECT \* FROM "order_profit" WHERE order_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnRows(rows)

		profit, err := repo.FindByOrderID(context.Background(), orderID)

		require.NoError(t, err)
		assert.Equal(t, orderID, profit.OrderID)
		assert.True(t, profit.NetProfit.Equal(decimal.NewFromInt(550)))
		assert.Equal(t, finance.FinalStatusDelivered, profit.FinalStatus)
		assert.Equal(t, finance.CostBasisComputed, profit.CostBasis)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns sentinel for missing row", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderProfitRepository(db)

		orderID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "order_profit" WHERE order_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByOrderID(context.Background(), orderID)

		assert.ErrorIs(t, err, finance.ErrProfitNotFound)
	})
}

func TestGormOrderRepository(t *testing.T) {
	t.Run("FindByID maps missing order to sentinel", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(db)

		orderID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), orderID)

		assert.ErrorIs(t, err, trade.ErrOrderNotFound)
	})

	t.Run("FindItems returns line items", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(db)

		orderID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "order_id", "sku", "qty", "price"}).
			AddRow(uuid.New(), orderID, "SKU-1", 2, decimal.NewFromInt(500)).
			AddRow(uuid.New(), orderID, "SKU-2", 1, decimal.NewFromInt(250))

		mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE order_id = \$1`).
			WithArgs(orderID).
			WillReturnRows(rows)

		items, err := repo.FindItems(context.Background(), orderID)

		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "SKU-1", items[0].SKU)
		assert.Equal(t, 2, items[0].Qty)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CountCreatedOn uses UTC day bounds", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(db)

		day := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
		start := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		end := start.Add(24 * time.Hour)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE created_at >= \$1 AND created_at < \$2`).
			WithArgs(start, end).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		count, err := repo.CountCreatedOn(context.Background(), day)

		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSkuCostRepository_FindBySKUs(t *testing.T) {
	t.Run("returns rows keyed by sku", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSkuCostRepository(db)

		rows := sqlmock.NewRows([]string{"id", "sku", "product_cost", "packaging_cost"}).
			AddRow(uuid.New(), "SKU-1", decimal.NewFromInt(300), decimal.NewFromInt(50))

		mock.ExpectQuery(`SELECT \* FROM "sku_costs" WHERE sku IN \(\$1,\$2\)`).
			WithArgs("SKU-1", "SKU-MISSING").
			WillReturnRows(rows)

		costs, err := repo.FindBySKUs(context.Background(), []string{"SKU-1", "SKU-MISSING"})

		require.NoError(t, err)
		require.Len(t, costs, 1)
		assert.True(t, costs["SKU-1"].ProductCost.Equal(decimal.NewFromInt(300)))
		_, found := costs["SKU-MISSING"]
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty sku list skips the query", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSkuCostRepository(db)

		costs, err := repo.FindBySKUs(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, costs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAdSpendRepository_SpendOn(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormAdSpendRepository(db)

	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "ad_spend_daily" WHERE spend_date = \$1`).
		WithArgs(day).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("1234.50"))

	total, err := repo.SpendOn(context.Background(), day.Add(9*time.Hour))

	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromFloat(1234.50)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProviderCredentialRepository_FindValue(t *testing.T) {
	t.Run("returns stored encrypted value", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProviderCredentialRepository(db)

		rows := sqlmock.NewRows([]string{"id", "user_id", "provider_id", "value_encrypted"}).
			AddRow(uuid.New(), "user-1", "delhivery", "ciphertext")

		mock.ExpectQuery(`SELECT \* FROM "provider_credentials" WHERE user_id = \$1 AND provider_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs("user-1", "delhivery", 1).
			WillReturnRows(rows)

		value, err := repo.FindValue(context.Background(), "user-1", "delhivery")

		require.NoError(t, err)
		assert.Equal(t, "ciphertext", value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns sentinel when no record exists", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProviderCredentialRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "provider_credentials" WHERE user_id = \$1 AND provider_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs("user-1", "selloship", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindValue(context.Background(), "user-1", "selloship")

		assert.ErrorIs(t, err, credentials.ErrRecordNotFound)
	})
}
