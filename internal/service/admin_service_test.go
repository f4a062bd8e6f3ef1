package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/livetrack/support-service/internal/auth"
	"github.com/livetrack/support-service/internal/domain"
)

func newAdminService(env *testEnv) *AdminService {
	return NewAdminService(env.admins, env.replies, bcrypt.MinCost)
}

func TestCreateAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("root creates an active admin account", func(t *testing.T) {
		env := newTestEnv()
		svc := newAdminService(env)
		root := env.addAdmin(domain.RoleRoot)

		admin, err := svc.CreateAdmin(ctx, root, CreateAdminInput{
			Username: "technician1",
			Password: "s3cretpass",
			FullName: "Field Tech",
		})
		require.NoError(t, err)

		assert.Equal(t, domain.RoleAdmin, admin.Role)
		assert.True(t, admin.Active)
		require.NotNil(t, admin.CreatedByRootID)
		assert.Equal(t, root.ID, *admin.CreatedByRootID)
		assert.NoError(t, auth.ComparePassword(admin.PasswordHash, "s3cretpass"))
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		env := newTestEnv()
		svc := newAdminService(env)
		root := env.addAdmin(domain.RoleRoot)

		_, err := svc.CreateAdmin(ctx, root, CreateAdminInput{
			Username: "technician1", Password: "s3cretpass", FullName: "One",
		})
		require.NoError(t, err)

		_, err = svc.CreateAdmin(ctx, root, CreateAdminInput{
			Username: "technician1", Password: "s3cretpass", FullName: "Two",
		})
		requireDomainCode(t, err, "CONFLICT")
	})

	t.Run("short password fails validation", func(t *testing.T) {
		env := newTestEnv()
		svc := newAdminService(env)
		root := env.addAdmin(domain.RoleRoot)

		_, err := svc.CreateAdmin(ctx, root, CreateAdminInput{
			Username: "technician1", Password: "short", FullName: "One",
		})
		requireDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("non-root is rejected", func(t *testing.T) {
		env := newTestEnv()
		svc := newAdminService(env)
		admin := env.addAdmin(domain.RoleAdmin)

		_, err := svc.CreateAdmin(ctx, admin, CreateAdminInput{
			Username: "x", Password: "s3cretpass", FullName: "X",
		})
		requireDomainCode(t, err, "FORBIDDEN")
	})
}

func TestToggleAdminStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("non-root gets forbidden", func(t *testing.T) {
		env := newTestEnv()
		svc := newAdminService(env)
		actor := env.addAdmin(domain.RoleAdmin)
		target := env.addAdmin(domain.RoleAdmin)

		_, err := svc.ToggleAdminStatus(ctx, actor, target.ID)
		requireDomainCode(t, err, "FORBIDDEN")
	})

	t.Run("root target is a validation failure", func(t *testing.T) {
		env := newTestEnv()
		svc := newAdminService(env)
		actor := env.addAdmin(domain.RoleRoot)
		otherRoot := env.addAdmin(domain.RoleRoot)

		_, err := svc.ToggleAdminStatus(ctx, actor, otherRoot.ID)
		requireDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("self target is a validation failure", func(t *testing.T) {
		env := newTestEnv()
		svc := newAdminService(env)
		actor := env.addAdmin(domain.RoleRoot)

		_, err := svc.ToggleAdminStatus(ctx, actor, actor.ID)
		requireDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("flips active both ways", func(t *testing.T) {
		env := newTestEnv()
		svc := newAdminService(env)
		actor := env.addAdmin(domain.RoleRoot)
		target := env.addAdmin(domain.RoleAdmin)

		toggled, err := svc.ToggleAdminStatus(ctx, actor, target.ID)
		require.NoError(t, err)
		assert.False(t, toggled.Active)

		toggled, err = svc.ToggleAdminStatus(ctx, actor, target.ID)
		require.NoError(t, err)
		assert.True(t, toggled.Active)
	})

	t.Run("unknown target is not found", func(t *testing.T) {
		env := newTestEnv()
		svc := newAdminService(env)
		actor := env.addAdmin(domain.RoleRoot)

		_, err := svc.ToggleAdminStatus(ctx, actor, "missing")
		requireDomainCode(t, err, "NOT_FOUND")
	})
}

func TestChangeAdminPassword(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	svc := newAdminService(env)
	root := env.addAdmin(domain.RoleRoot)
	target := env.addAdmin(domain.RoleAdmin)

	require.NoError(t, svc.ChangeAdminPassword(ctx, root, target.ID, "brand-new-pass"))

	stored, err := env.admins.GetByID(ctx, target.ID)
	require.NoError(t, err)
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "brand-new-pass"))

	err = svc.ChangeAdminPassword(ctx, root, target.ID, "short")
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func TestGetAdminProfile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	svc := newAdminService(env)
	root := env.addAdmin(domain.RoleRoot)
	admin := env.addAdmin(domain.RoleAdmin)
	other := env.addAdmin(domain.RoleAdmin)

	t.Run("empty id means self", func(t *testing.T) {
		profile, err := svc.GetAdminProfile(ctx, admin, "")
		require.NoError(t, err)
		assert.Equal(t, admin.ID, profile.ID)
	})

	t.Run("admin cannot read another profile", func(t *testing.T) {
		_, err := svc.GetAdminProfile(ctx, admin, other.ID)
		requireDomainCode(t, err, "FORBIDDEN")
	})

	t.Run("root reads any profile", func(t *testing.T) {
		profile, err := svc.GetAdminProfile(ctx, root, other.ID)
		require.NoError(t, err)
		assert.Equal(t, other.ID, profile.ID)
	})
}

func TestListAdminsWithDoneCounts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	svc := newAdminService(env)
	root := env.addAdmin(domain.RoleRoot)
	admin := env.addAdmin(domain.RoleAdmin)
	ticket := env.addTicket(domain.TicketStatusInProgress, &admin.ID)

	// Two DONE replies credited to the admin, one non-DONE.
	for _, status := range []domain.TicketStatus{
		domain.TicketStatusDone,
		domain.TicketStatusDone,
		domain.TicketStatusInProgress,
	} {
		reply := &domain.TicketReply{TicketID: ticket.ID, AdminID: admin.ID, Status: status}
		require.NoError(t, env.replies.Create(ctx, reply))
		require.NoError(t, env.replies.AddPerformers(ctx, reply.ID, []string{admin.ID}))
	}

	items, err := svc.ListAdmins(ctx, root)
	require.NoError(t, err)
	require.Len(t, items, 2)

	counts := map[string]int64{}
	for _, item := range items {
		counts[item.Admin.ID] = item.DoneCount
	}
	assert.Equal(t, int64(2), counts[admin.ID])
	assert.Equal(t, int64(0), counts[root.ID])

	_, err = svc.ListAdmins(ctx, admin)
	requireDomainCode(t, err, "FORBIDDEN")
}
