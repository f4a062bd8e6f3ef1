package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livetrack/support-service/internal/auth"
	"github.com/livetrack/support-service/internal/domain"
)

func newCustomerService(env *testEnv) *CustomerService {
	return NewCustomerService(env.customers, env.distributors, &fakeTxRunner{stores: env.stores})
}

func TestCustomerCRUD(t *testing.T) {
	ctx := context.Background()

	t.Run("create requires an existing distributor when referenced", func(t *testing.T) {
		env := newTestEnv()
		svc := newCustomerService(env)
		admin := env.addAdmin(domain.RoleAdmin)

		ghost := "missing"
		_, err := svc.CreateCustomer(ctx, admin, CustomerInput{
			DistributorID: &ghost, FullName: "Sub", Phone: "1", Location: "L",
		})
		requireDomainCode(t, err, "VALIDATION_FAILED")

		distributor := env.addDistributor("Node")
		customer, err := svc.CreateCustomer(ctx, admin, CustomerInput{
			DistributorID: &distributor.ID, FullName: "Sub", Phone: "1", Location: "L",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, customer.ID)
	})

	t.Run("distributor role cannot manage customers", func(t *testing.T) {
		env := newTestEnv()
		svc := newCustomerService(env)
		actor := env.addAdmin(domain.RoleDistributor)

		_, err := svc.CreateCustomer(ctx, actor, CustomerInput{FullName: "Sub", Phone: "1", Location: "L"})
		requireDomainCode(t, err, "FORBIDDEN")
	})

	t.Run("delete is root only", func(t *testing.T) {
		env := newTestEnv()
		svc := newCustomerService(env)
		root := env.addAdmin(domain.RoleRoot)
		admin := env.addAdmin(domain.RoleAdmin)
		customer := env.addCustomer(nil)

		err := svc.DeleteCustomer(ctx, admin, customer.ID)
		requireDomainCode(t, err, "FORBIDDEN")

		require.NoError(t, svc.DeleteCustomer(ctx, root, customer.ID))
		_, err = svc.GetCustomer(ctx, customer.ID)
		requireDomainCode(t, err, "NOT_FOUND")
	})

	t.Run("update replaces fields", func(t *testing.T) {
		env := newTestEnv()
		svc := newCustomerService(env)
		admin := env.addAdmin(domain.RoleAdmin)
		customer := env.addCustomer(nil)

		updated, err := svc.UpdateCustomer(ctx, admin, customer.ID, CustomerInput{
			FullName: "Renamed", Phone: "0912", Location: "Elsewhere",
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.FullName)
		assert.Equal(t, "Elsewhere", updated.Location)
	})
}

func TestBulkCreateCustomers(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid row aborts the whole batch", func(t *testing.T) {
		env := newTestEnv()
		svc := newCustomerService(env)
		admin := env.addAdmin(domain.RoleAdmin)

		_, err := svc.BulkCreateCustomers(ctx, admin, []CustomerInput{
			{FullName: "Valid", Phone: "1", Location: "L"},
			{FullName: "", Phone: "2", Location: "L"},
		})
		requireDomainCode(t, err, "VALIDATION_FAILED")
		assert.Empty(t, env.customers.customers)
	})

	t.Run("valid batch creates every row", func(t *testing.T) {
		env := newTestEnv()
		svc := newCustomerService(env)
		admin := env.addAdmin(domain.RoleAdmin)

		created, err := svc.BulkCreateCustomers(ctx, admin, []CustomerInput{
			{FullName: "One", Phone: "1", Location: "L"},
			{FullName: "Two", Phone: "2", Location: "L"},
		})
		require.NoError(t, err)
		assert.Len(t, created, 2)
		assert.Len(t, env.customers.customers, 2)
	})

	t.Run("empty batch fails validation", func(t *testing.T) {
		env := newTestEnv()
		svc := newCustomerService(env)
		admin := env.addAdmin(domain.RoleAdmin)

		_, err := svc.BulkCreateCustomers(ctx, admin, nil)
		requireDomainCode(t, err, "VALIDATION_FAILED")
	})
}

func TestAuthLogin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	tokens := auth.NewTokenManager("test-secret", 15)
	svc := NewAuthService(env.admins, tokens)

	hash, err := auth.HashPassword("correct-horse", 4)
	require.NoError(t, err)
	admin := env.admins.add(&domain.Admin{
		Username:     "operator",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		FullName:     "Operator",
		Active:       true,
	})

	t.Run("valid credentials issue a token", func(t *testing.T) {
		result, err := svc.Login(ctx, "operator", "correct-horse")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)

		claims, err := tokens.ParseToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, admin.ID, claims.AdminID)
		assert.Equal(t, domain.RoleAdmin, claims.Role)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, err := svc.Login(ctx, "operator", "wrong")
		requireDomainCode(t, err, "UNAUTHORIZED")
	})

	t.Run("unknown username is unauthorized", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", "whatever")
		requireDomainCode(t, err, "UNAUTHORIZED")
	})

	t.Run("deactivated account is rejected", func(t *testing.T) {
		require.NoError(t, env.admins.SetActive(ctx, admin.ID, false))
		_, err := svc.Login(ctx, "operator", "correct-horse")
		requireDomainCode(t, err, "UNAUTHORIZED")
		require.NoError(t, env.admins.SetActive(ctx, admin.ID, true))
	})
}
