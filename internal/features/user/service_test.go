package user

import (
	"context"
	"sort"
	"sync"
	"testing"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/tenancy"
	"estate-crm/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
	seq   int
}

func newMemoryUserRepo(users ...models.User) *memoryUserRepo {
	r := &memoryUserRepo{users: map[string]models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return errs.Invalid("email %s is already registered", user.Email)
		}
	}
	if user.ID == "" {
		r.seq++
		user.ID = "new-" + string(rune('a'+r.seq))
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.FindOne(ctx, bson.M{"_id": id})
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindOne(ctx, bson.M{"email": email})
}

func (r *memoryUserRepo) FindOne(ctx context.Context, filter bson.M) (*models.User, error) {
	list, _ := r.List(ctx, filter)
	if len(list) == 0 {
		return nil, errs.ErrNotFound
	}
	return &list[0], nil
}

func (r *memoryUserRepo) List(_ context.Context, filter bson.M) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.User{}
	for _, u := range r.users {
		if testutil.Matches(u, filter) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryUserRepo) Update(_ context.Context, filter bson.M, updates bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if testutil.Matches(u, filter) {
			if err := testutil.Apply(&u, updates); err != nil {
				return err
			}
			r.users[id] = u
			return nil
		}
	}
	return errs.ErrNotFound
}

func (r *memoryUserRepo) Delete(_ context.Context, filter bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if testutil.Matches(u, filter) {
			delete(r.users, id)
			return nil
		}
	}
	return errs.ErrNotFound
}

func (r *memoryUserRepo) TeamMemberIDs(ctx context.Context, tenantID, supervisorID string) ([]string, error) {
	list, _ := r.List(ctx, bson.M{
		"tenant_id": tenantID,
		"$or": bson.A{
			bson.M{"_id": supervisorID, "role": permission.RoleSupervisor},
			bson.M{"supervisor_id": supervisorID},
		},
	})
	ids := make([]string, 0, len(list))
	for _, u := range list {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (r *memoryUserRepo) EnsureIndexes(context.Context) error { return nil }

type recordingSessions struct {
	invalidated []string
}

func (s *recordingSessions) Invalidate(userID string) {
	s.invalidated = append(s.invalidated, userID)
}

func seedUsers() []models.User {
	return []models.User{
		{ID: "admin-1", TenantID: "t1", Email: "admin@t1.test", Role: permission.RoleAdmin, IsActive: true},
		{ID: "sup-1", TenantID: "t1", Email: "sup@t1.test", Role: permission.RoleSupervisor, IsActive: true},
		{ID: "sales-1", TenantID: "t1", Email: "s1@t1.test", Role: permission.RoleSales, SupervisorID: "sup-1", IsActive: true},
		{ID: "sales-2", TenantID: "t1", Email: "s2@t1.test", Role: permission.RoleSales, IsActive: true},
		{ID: "admin-2", TenantID: "t2", Email: "admin@t2.test", Role: permission.RoleAdmin, IsActive: true},
		{ID: "root", Email: "root@platform.test", Role: permission.RoleSuperAdmin, IsActive: true},
	}
}

func newTestService(t *testing.T) (*UserServiceImpl, *memoryUserRepo, *recordingSessions) {
	t.Helper()
	table, err := permission.NewDefaultTable()
	require.NoError(t, err)

	repo := newMemoryUserRepo(seedUsers()...)
	sessions := &recordingSessions{}
	iso := tenancy.NewIsolation(permission.NewResolver(table), repo, zap.NewNop(), nil)
	svc := NewUserService(repo, iso, sessions, zap.NewNop()).(*UserServiceImpl)
	return svc, repo, sessions
}

func caller(id string, role permission.Role, tenant, supervisor string) tenancy.Caller {
	return tenancy.Caller{Principal: tenancy.Principal{UserID: id, Role: role, TenantID: tenant, SupervisorID: supervisor}}
}

func ids(users []models.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

func TestListUsersByScope(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	admin, err := svc.ListUsers(ctx, caller("admin-1", permission.RoleAdmin, "t1", ""), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"admin-1", "sales-1", "sales-2", "sup-1"}, ids(admin))

	team, err := svc.ListUsers(ctx, caller("sup-1", permission.RoleSupervisor, "t1", ""), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"sales-1", "sup-1"}, ids(team))

	_, err = svc.ListUsers(ctx, caller("sales-1", permission.RoleSales, "t1", "sup-1"), "")
	var authErr *errs.AuthorizationError
	assert.ErrorAs(t, err, &authErr)

	platform, err := svc.ListUsers(ctx, caller("root", permission.RoleSuperAdmin, "", ""), permission.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin-1", "admin-2"}, ids(platform))
}

func TestGetUserOutsideTenantIsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetUser(context.Background(), caller("admin-1", permission.RoleAdmin, "t1", ""), "admin-2")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestListUsersRejectsForeignTenantHeader(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := caller("admin-1", permission.RoleAdmin, "t1", "")
	c.RequestedTenant = "t2"

	_, err := svc.ListUsers(context.Background(), c, "")
	var mismatch *errs.TenantMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "t2", mismatch.RequestedTenant)
}

func TestCreateUser(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	admin := caller("admin-1", permission.RoleAdmin, "t1", "")

	created, err := svc.CreateUser(ctx, admin, CreateUserRequest{
		Email:        " New.Agent@T1.test ",
		Password:     "correct horse",
		Role:         permission.RoleSales,
		SupervisorID: "sup-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", created.TenantID)
	assert.Equal(t, "new.agent@t1.test", created.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("correct horse")))

	members, err := repo.TeamMemberIDs(ctx, "t1", "sup-1")
	require.NoError(t, err)
	assert.Contains(t, members, created.ID)
}

func TestCreateUserRejectsRankAndSupervisorViolations(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	admin := caller("admin-1", permission.RoleAdmin, "t1", "")

	_, err := svc.CreateUser(ctx, admin, CreateUserRequest{Email: "peer@t1.test", Password: "long enough", Role: permission.RoleAdmin})
	var authErr *errs.AuthorizationError
	assert.ErrorAs(t, err, &authErr)

	_, err = svc.CreateUser(ctx, admin, CreateUserRequest{Email: "x@t1.test", Password: "long enough", Role: permission.RoleSales, SupervisorID: "admin-2"})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = svc.CreateUser(ctx, admin, CreateUserRequest{Email: "y@t1.test", Password: "short", Role: permission.RoleSales})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = svc.CreateUser(ctx, caller("sup-1", permission.RoleSupervisor, "t1", ""), CreateUserRequest{Email: "z@t1.test", Password: "long enough", Role: permission.RoleSales})
	assert.ErrorAs(t, err, &authErr)
}

func TestUpdateUserInvalidatesSession(t *testing.T) {
	svc, repo, sessions := newTestService(t)
	admin := caller("admin-1", permission.RoleAdmin, "t1", "")
	role := permission.RoleSupervisor

	updated, err := svc.UpdateUser(context.Background(), admin, "sales-1", UpdateUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, permission.RoleSupervisor, updated.Role)
	assert.Empty(t, updated.SupervisorID)
	assert.Equal(t, []string{"sales-1"}, sessions.invalidated)

	members, _ := repo.TeamMemberIDs(context.Background(), "t1", "sup-1")
	assert.Equal(t, []string{"sup-1"}, members)
}

func TestDeleteUser(t *testing.T) {
	svc, _, sessions := newTestService(t)
	ctx := context.Background()
	admin := caller("admin-1", permission.RoleAdmin, "t1", "")

	assert.ErrorIs(t, svc.DeleteUser(ctx, admin, "admin-1"), errs.ErrInvalidInput)
	assert.ErrorIs(t, svc.DeleteUser(ctx, admin, "admin-2"), errs.ErrNotFound)

	require.NoError(t, svc.DeleteUser(ctx, admin, "sales-2"))
	assert.Equal(t, []string{"sales-2"}, sessions.invalidated)
}
