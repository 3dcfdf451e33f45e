package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norahairline/norahairline/internal/config"
	"github.com/norahairline/norahairline/internal/database"
	"github.com/norahairline/norahairline/internal/models"
)

// setupTestDB opens a fresh SQLite file with the full schema.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	cfg := &config.DBConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "data.db")}
	db, err := database.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.EnsureSchema(context.Background()))
	return db
}

func createTestProduct(t *testing.T, s *Store, price float64) *models.Product {
	t.Helper()

	p := models.NewProduct("Body Wave Bundle", "18 inch Brazilian body wave", "bundles", price)
	require.NoError(t, s.CreateProduct(context.Background(), p))
	return p
}

func TestInsertAdmin(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)
	ctx := context.Background()

	id, err := s.InsertAdmin(ctx, "admin", "$2a$04$first")
	require.NoError(t, err)
	assert.Positive(t, id)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := s.InsertAdmin(ctx, "admin", "$2a$04$second")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDuplicateUsername)

		admin, err := s.GetAdminByUsername(ctx, "admin")
		require.NoError(t, err)
		assert.Equal(t, id, admin.ID)
		assert.Equal(t, "$2a$04$first", admin.PasswordHash, "first insert must be preserved")
	})

	t.Run("empty hash rejected", func(t *testing.T) {
		_, err := s.InsertAdmin(ctx, "other", "")
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("lookup and count", func(t *testing.T) {
		_, err := s.InsertAdmin(ctx, "manager", "$2a$04$third")
		require.NoError(t, err)

		n, err := s.CountAdmins(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		admins, err := s.ListAdmins(ctx)
		require.NoError(t, err)
		require.Len(t, admins, 2)
		assert.Equal(t, "admin", admins[0].Username)
		assert.Equal(t, "manager", admins[1].Username)
		assert.False(t, admins[0].CreatedAt.IsZero())

		_, err = s.GetAdminByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrAdminNotFound)
	})
}

func TestProductLifecycle(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)
	ctx := context.Background()

	img := "https://cdn.example.com/wig.jpg"
	p := models.NewProduct("Lace Front Wig", "HD lace", "wigs", 249.5)
	p.ImageURL = &img
	p.ImageURLs = []string{"https://cdn.example.com/1.jpg", "https://cdn.example.com/2.jpg"}
	p.Featured = true
	require.NoError(t, s.CreateProduct(ctx, p))
	require.Positive(t, p.ID)

	found, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lace Front Wig", found.Name)
	assert.Equal(t, 249.5, found.Price)
	assert.Equal(t, models.DefaultStock, found.Stock)
	assert.True(t, found.Featured)
	require.NotNil(t, found.ImageURL)
	assert.Equal(t, img, *found.ImageURL)
	assert.Nil(t, found.VideoURL)
	assert.Equal(t, p.ImageURLs, found.ImageURLs)

	t.Run("update advances updated_at", func(t *testing.T) {
		before := found.UpdatedAt
		s.now = func() time.Time { return before.Add(time.Minute) }
		defer func() { s.now = func() time.Time { return time.Now().UTC() } }()

		found.Stock = 5
		require.NoError(t, s.UpdateProduct(ctx, found))

		reloaded, err := s.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, reloaded.Stock)
		assert.True(t, reloaded.UpdatedAt.After(before), "updated_at should advance")
		assert.False(t, reloaded.UpdatedAt.Before(reloaded.CreatedAt))
	})

	t.Run("update with stale clock still advances", func(t *testing.T) {
		current, err := s.GetProduct(ctx, p.ID)
		require.NoError(t, err)

		previous := current.UpdatedAt
		s.now = func() time.Time { return current.CreatedAt.Add(-time.Hour) }
		defer func() { s.now = func() time.Time { return time.Now().UTC() } }()

		current.Featured = false
		require.NoError(t, s.UpdateProduct(ctx, current))
		reloaded, err := s.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.UpdatedAt.After(previous), "updated_at should advance past %v, got %v", previous, reloaded.UpdatedAt)
		assert.False(t, reloaded.UpdatedAt.Before(reloaded.CreatedAt))
	})

	t.Run("invalid update rejected", func(t *testing.T) {
		bad, err := s.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		bad.Price = -1
		assert.ErrorIs(t, s.UpdateProduct(ctx, bad), models.ErrValidation)
	})

	t.Run("list by category", func(t *testing.T) {
		createTestProduct(t, s, 20)

		all, err := s.ListProducts(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)

		wigs, err := s.ListProducts(ctx, "wigs")
		require.NoError(t, err)
		require.Len(t, wigs, 1)
		assert.Equal(t, p.ID, wigs[0].ID)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := s.GetProduct(ctx, 9999)
		assert.ErrorIs(t, err, ErrProductNotFound)

		ghost := models.NewProduct("Ghost", "", "misc", 1)
		ghost.ID = 9999
		assert.ErrorIs(t, s.UpdateProduct(ctx, ghost), ErrProductNotFound)
		assert.ErrorIs(t, s.DeleteProduct(ctx, 9999), ErrProductNotFound)
	})
}

func TestCreateProduct_Validation(t *testing.T) {
	s := New(setupTestDB(t))
	ctx := context.Background()

	p := models.NewProduct("Bundle", "x", "bundles", -5)
	assert.ErrorIs(t, s.CreateProduct(ctx, p), models.ErrValidation)

	p = models.NewProduct("Bundle", "x", "bundles", 5)
	p.Stock = -1
	assert.ErrorIs(t, s.CreateProduct(ctx, p), models.ErrValidation)

	n, err := s.CountRows(ctx, "products")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOrderSnapshot(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)
	ctx := context.Background()

	p := createTestProduct(t, s, 10.0)

	order := &models.Order{
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		ProductID:     p.ID,
		Quantity:      3,
	}
	require.NoError(t, s.CreateOrder(ctx, order))
	assert.Equal(t, 30.0, order.TotalPrice)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	p.Price = 20.0
	require.NoError(t, s.UpdateProduct(ctx, p))

	reloaded, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, reloaded.TotalPrice, "historical order must keep its total")
	assert.Equal(t, 3, reloaded.Quantity)

	second := &models.Order{CustomerName: "Bea", CustomerEmail: "bea@example.com", ProductID: p.ID}
	require.NoError(t, s.CreateOrder(ctx, second))
	assert.Equal(t, 1, second.Quantity, "quantity defaults to 1")
	assert.Equal(t, 20.0, second.TotalPrice)
}

func TestOrder_ReferentialIntegrity(t *testing.T) {
	s := New(setupTestDB(t))
	ctx := context.Background()

	err := s.CreateOrder(ctx, &models.Order{
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		ProductID:     42,
		Quantity:      1,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)

	n, err := s.CountRows(ctx, "orders")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateOrderStatus(t *testing.T) {
	s := New(setupTestDB(t))
	ctx := context.Background()

	p := createTestProduct(t, s, 15)
	o := &models.Order{CustomerName: "Ada", CustomerEmail: "ada@example.com", ProductID: p.ID, Quantity: 2}
	require.NoError(t, s.CreateOrder(ctx, o))

	require.NoError(t, s.UpdateOrderStatus(ctx, o.ID, models.OrderStatusShipped))
	reloaded, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, reloaded.Status)

	assert.ErrorIs(t, s.UpdateOrderStatus(ctx, o.ID, "Lost"), models.ErrValidation)
	assert.ErrorIs(t, s.UpdateOrderStatus(ctx, 999, models.OrderStatusCancelled), ErrOrderNotFound)

	_, err = s.GetOrder(ctx, 999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestReviews(t *testing.T) {
	s := New(setupTestDB(t))
	ctx := context.Background()
	p := createTestProduct(t, s, 30)

	t.Run("rating bounds", func(t *testing.T) {
		for _, rating := range []int{0, 6, -3} {
			err := s.CreateReview(ctx, &models.Review{
				ProductID: p.ID, CustomerName: "Bea", CustomerEmail: "bea@example.com", Rating: rating, Comment: "hmm",
			})
			assert.ErrorIs(t, err, models.ErrValidation, "rating %d", rating)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		err := s.CreateReview(ctx, &models.Review{
			ProductID: 777, CustomerName: "Bea", CustomerEmail: "bea@example.com", Rating: 5, Comment: "great",
		})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("valid reviews", func(t *testing.T) {
		for _, rating := range []int{1, 5} {
			r := &models.Review{ProductID: p.ID, CustomerName: "Bea", CustomerEmail: "bea@example.com", Rating: rating, Comment: "ok"}
			require.NoError(t, s.CreateReview(ctx, r))
			assert.Positive(t, r.ID)
		}

		reviews, err := s.ListReviewsByProduct(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, reviews, 2)
		assert.Equal(t, 5, reviews[0].Rating, "newest first")
	})

	t.Run("referenced product cannot be deleted", func(t *testing.T) {
		assert.ErrorIs(t, s.DeleteProduct(ctx, p.ID), ErrProductReferenced)

		_, err := s.GetProduct(ctx, p.ID)
		assert.NoError(t, err)
	})
}

func TestDeleteUnreferencedProduct(t *testing.T) {
	s := New(setupTestDB(t))
	ctx := context.Background()

	p := createTestProduct(t, s, 12)
	require.NoError(t, s.DeleteProduct(ctx, p.ID))

	_, err := s.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestStoreInsideTransaction(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := New(tx).InsertAdmin(ctx, "admin", "$2a$04$hash"); err != nil {
			return err
		}
		_, err := New(tx).InsertAdmin(ctx, "admin", "$2a$04$hash")
		return err
	})
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	n, err := New(db).CountAdmins(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "rolled back transaction must leave no admin row")
}

func TestCountRows_UnknownTable(t *testing.T) {
	s := New(setupTestDB(t))
	_, err := s.CountRows(context.Background(), "users; DROP TABLE admins")
	assert.Error(t, err)
}

func TestTimestampsReadableBySQLite(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)
	ctx := context.Background()

	id, err := s.InsertAdmin(ctx, "admin", "$2a$04$hash")
	require.NoError(t, err)
	p := createTestProduct(t, s, 25)

	for _, q := range []struct {
		table string
		id    int64
	}{
		{"admins", id},
		{"products", p.ID},
	} {
		var raw string
		var normalized sql.NullString
		err := db.QueryRowContext(ctx,
			"SELECT CAST(created_at AS TEXT), datetime(created_at) FROM "+q.table+" WHERE id = ?", q.id,
		).Scan(&raw, &normalized)
		require.NoError(t, err)

		require.True(t, normalized.Valid, "datetime() must parse %s.created_at %q", q.table, raw)
		assert.True(t, strings.HasPrefix(raw, normalized.String), "%s.created_at %q should start with %q", q.table, raw, normalized.String)
		assert.NotContains(t, raw, "UTC")
	}

	admin, err := s.GetAdminByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), admin.CreatedAt, time.Minute)
}
