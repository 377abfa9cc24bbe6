//go:build integration
// +build integration

package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/database"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/models"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
)

var testDB *mongo.Database

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		panic("failed to start MongoDB container: " + err.Error())
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		panic("failed to get connection string: " + err.Error())
	}

	testDB, err = database.ConnectDB(ctx, uri, "shop_integration")
	if err != nil {
		panic(err)
	}
	if err := database.EnsureIndexes(ctx, testDB); err != nil {
		panic(err)
	}

	code := m.Run()

	_ = database.Disconnect(ctx, testDB)
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newUser(t *testing.T, repo *repository.MongoUserRepository, email string, role models.Role) *models.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	user := &models.User{ID: uuid.NewString(), Name: "Test", Email: email, Password: "hash", CreatedAt: now, UpdatedAt: now}
	profile := &models.Profile{ID: user.ID, Email: email, Name: "Test", Role: role, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(context.Background(), user, profile))
	return user
}

func TestUserRepository_CreateAndDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testDB)

	user := newUser(t, repo, "dup@example.com", models.RoleCustomer)

	found, err := repo.FindByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	profile, err := repo.FindProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, profile.Role)

	again := &models.User{ID: uuid.NewString(), Email: "dup@example.com"}
	err = repo.Create(ctx, again, &models.Profile{ID: again.ID, Email: "dup@example.com", Role: models.RoleCustomer})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	promoted, err := repo.SetRole(ctx, "dup@example.com", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)
}

func TestUserRepository_UpdateProfileMirrorsName(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testDB)
	user := newUser(t, repo, "mirror@example.com", models.RoleCustomer)

	name := "Renamed"
	profile, err := repo.UpdateProfile(ctx, user.ID, models.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", profile.Name)

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", reloaded.Name)
}

func TestTokenRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewTokenRepository(testDB)

	token := &models.Token{ID: uuid.NewString(), UserID: "u1", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, token))

	require.NoError(t, repo.Touch(ctx, token.ID, time.Now().UTC()))
	found, err := repo.Find(ctx, token.ID)
	require.NoError(t, err)
	assert.NotNil(t, found.LastUsedAt)

	require.NoError(t, repo.Delete(ctx, token.ID))
	_, err = repo.Find(ctx, token.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, token.ID), repository.ErrNotFound)
}

func TestProductRepository_SearchAndSoftDelete(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProductRepository(testDB)
	now := time.Now().UTC()

	arabica := &models.Product{Name: "Arabica Gayo", Price: decimal.RequireFromString("85000.50"), Category: "beans-search", IsActive: true, CreatedAt: now, UpdatedAt: now}
	robusta := &models.Product{Name: "Robusta Lampung", Price: decimal.NewFromInt(60000), Category: "beans-search", IsActive: false, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, arabica))
	require.NoError(t, repo.Create(ctx, robusta))

	items, total, err := repo.List(ctx, models.ProductFilter{Search: "ARABICA", Category: "beans-search"}, models.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("85000.5")))

	active := false
	items, _, err = repo.List(ctx, models.ProductFilter{Category: "beans-search", IsActive: &active}, models.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Robusta Lampung", items[0].Name)

	require.NoError(t, repo.SoftDelete(ctx, arabica.ID.Hex(), now))

	_, err = repo.FindByID(ctx, arabica.ID.Hex(), false)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	deleted, err := repo.FindByID(ctx, arabica.ID.Hex(), true)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted())

	_, total, err = repo.List(ctx, models.ProductFilter{Category: "beans-search"}, models.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	byID, err := repo.FindByIDs(ctx, []string{arabica.ID.Hex(), robusta.ID.Hex(), "bogus"})
	require.NoError(t, err)
	assert.Len(t, byID, 2)
}

func TestOrderRepository_ConditionalUpdates(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewOrderRepository(testDB)
	now := time.Now().UTC().Truncate(time.Millisecond)

	order := &models.Order{
		ID:        "ORD-TEST-" + uuid.NewString(),
		UserID:    "owner-1",
		Status:    models.OrderStatusPendingPayment,
		Items:     []models.OrderItem{{ProductID: "p1", Quantity: 2, Price: decimal.NewFromInt(100000)}},
		Subtotal:  decimal.NewFromInt(200000),
		Total:     decimal.NewFromInt(210000),
		OrderDate: now,
	}
	require.NoError(t, repo.Create(ctx, order))

	_, err := repo.FindByID(ctx, order.ID, "someone-else")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	addr := "Jl. Baru 1"
	updated, err := repo.UpdateIfStatus(ctx, order.ID, "owner-1", models.PendingStatuses, models.OrderUpdate{ShippingAddress: &addr})
	require.NoError(t, err)
	assert.Equal(t, "Jl. Baru 1", updated.ShippingAddress)
	assert.True(t, updated.Total.Equal(decimal.NewFromInt(210000)))

	shipped := models.OrderStatusShipped
	_, err = repo.UpdateIfStatus(ctx, order.ID, "", []models.OrderStatus{models.OrderStatusPendingPayment}, models.OrderUpdate{Status: &shipped})
	require.NoError(t, err)

	// Stale expectation no longer matches.
	_, err = repo.UpdateIfStatus(ctx, order.ID, "owner-1", models.PendingStatuses, models.OrderUpdate{ShippingAddress: &addr})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, repo.SoftDeleteIfStatus(ctx, order.ID, "owner-1", models.PendingStatuses, now), repository.ErrNotFound)
	require.NoError(t, repo.SoftDeleteIfStatus(ctx, order.ID, "", nil, now))

	_, err = repo.FindByID(ctx, order.ID, "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOrderRepository_ListNewestFirstAndScoped(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewOrderRepository(testDB)
	base := time.Now().UTC().Truncate(time.Millisecond)
	owner := "list-owner-" + uuid.NewString()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.Order{
			ID:        uuid.NewString(),
			UserID:    owner,
			Status:    models.OrderStatusPendingPayment,
			OrderDate: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.Create(ctx, &models.Order{ID: uuid.NewString(), UserID: "other", Status: models.OrderStatusPaid, OrderDate: base}))

	items, total, err := repo.List(ctx, models.OrderFilter{UserID: owner}, models.PageRequest{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 2)
	assert.True(t, items[0].OrderDate.After(items[1].OrderDate))
	for _, o := range items {
		assert.Equal(t, owner, o.UserID)
	}
}

func TestAddressRepository_OwnerScoped(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewAddressRepository(testDB)
	lat := -6.2

	address := &models.Address{UserID: "addr-owner", Alamat: "Jl. Sudirman", Latitude: &lat, CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, address))

	_, err := repo.FindByID(ctx, "intruder", address.ID.Hex())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	alamat := "Jl. Thamrin"
	_, err = repo.Update(ctx, "intruder", address.ID.Hex(), models.AddressUpdate{Alamat: &alamat})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	updated, err := repo.Update(ctx, "addr-owner", address.ID.Hex(), models.AddressUpdate{Alamat: &alamat})
	require.NoError(t, err)
	assert.Equal(t, "Jl. Thamrin", updated.Alamat)
	require.NotNil(t, updated.Latitude)
	assert.Equal(t, -6.2, *updated.Latitude)

	cleared, err := repo.Update(ctx, "addr-owner", address.ID.Hex(), models.AddressUpdate{
		Latitude: models.Null[float64](),
		Accuracy: models.NullableOf(models.Accuracy("10")),
	})
	require.NoError(t, err)
	assert.Nil(t, cleared.Latitude)
	require.NotNil(t, cleared.Accuracy)
	assert.Equal(t, models.Accuracy("10"), *cleared.Accuracy)
	assert.Equal(t, "Jl. Thamrin", cleared.Alamat)

	assert.ErrorIs(t, repo.Delete(ctx, "intruder", address.ID.Hex()), repository.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, "addr-owner", address.ID.Hex()))
}
