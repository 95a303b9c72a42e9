package auth

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dcpatrol/patrol/internal/adapters/memory"
	"github.com/dcpatrol/patrol/internal/domain/models"
	"github.com/dcpatrol/patrol/internal/domain/ports"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

var loginTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

func newTestProvider(t *testing.T, store ports.DocumentStore, clock *testClock) *Provider {
	t.Helper()
	p, err := NewProvider(context.Background(), store, "test-secret", time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	return p
}

func TestAuthenticate_DemoAccounts(t *testing.T) {
	provider := newTestProvider(t, memory.NewStore(), &testClock{now: loginTime})
	ctx := context.Background()

	for username, role := range map[string]models.Role{
		"admin":    models.RoleAdmin,
		"engineer": models.RoleEngineer,
		"viewer":   models.RoleViewer,
	} {
		session, err := provider.Authenticate(ctx, username, "password123")
		require.NoError(t, err, username)
		assert.NotEmpty(t, session.Token)
		assert.Equal(t, role, session.Account.Role)
		assert.Empty(t, session.Account.PasswordHash)
	}
}

func TestAuthenticate_TracksLastLogin(t *testing.T) {
	clock := &testClock{now: loginTime}
	provider := newTestProvider(t, memory.NewStore(), clock)
	ctx := context.Background()

	first, err := provider.Authenticate(ctx, "admin", "password123")
	require.NoError(t, err)
	assert.Nil(t, first.LastLogin)

	clock.now = loginTime.Add(2 * time.Hour)
	second, err := provider.Authenticate(ctx, "admin", "password123")
	require.NoError(t, err)
	require.NotNil(t, second.LastLogin)
	assert.True(t, second.LastLogin.Equal(loginTime))
}

func TestAuthenticate_BadCredentials(t *testing.T) {
	provider := newTestProvider(t, memory.NewStore(), &testClock{now: loginTime})
	ctx := context.Background()

	_, err := provider.Authenticate(ctx, "admin", "wrongpassword")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = provider.Authenticate(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestAuthenticate_PendingAccountRejected(t *testing.T) {
	provider := newTestProvider(t, memory.NewStore(), &testClock{now: loginTime})
	ctx := context.Background()

	_, err := provider.Register(ctx, ports.RegistrationRequest{
		Username: "newbie",
		Password: "longenough",
		FullName: "Wang Lei",
		Email:    "wang.lei@example.edu",
		Role:     models.RoleViewer,
	})
	require.NoError(t, err)

	_, err = provider.Authenticate(ctx, "newbie", "longenough")
	assert.ErrorIs(t, err, models.ErrAccountPending)
}

func TestAuthenticate_InactiveAccountRejected(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	accounts := []models.Account{{
		ID:           "acc-1",
		Username:     "former",
		FullName:     "Former Employee",
		Email:        "former@example.edu",
		PasswordHash: string(hash),
		Role:         models.RoleEngineer,
		Status:       models.AccountStatusInactive,
	}}
	raw, err := json.Marshal(accounts)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, ports.KeyAccounts, raw))

	provider := newTestProvider(t, store, &testClock{now: loginTime})
	_, err = provider.Authenticate(ctx, "former", "password123")
	assert.ErrorIs(t, err, models.ErrAccountInactive)
}

func TestVerify_RoundTrip(t *testing.T) {
	provider := newTestProvider(t, memory.NewStore(), &testClock{now: loginTime})
	ctx := context.Background()

	session, err := provider.Authenticate(ctx, "engineer", "password123")
	require.NoError(t, err)

	account, err := provider.Verify(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "engineer", account.Username)
	assert.Equal(t, models.RoleEngineer, account.Role)
	assert.Empty(t, account.PasswordHash)
}

func TestVerify_RejectsGarbageAndExpiry(t *testing.T) {
	clock := &testClock{now: loginTime}
	provider := newTestProvider(t, memory.NewStore(), clock)
	ctx := context.Background()

	_, err := provider.Verify(ctx, "not-a-token")
	assert.ErrorIs(t, err, models.ErrInvalidToken)

	session, err := provider.Authenticate(ctx, "admin", "password123")
	require.NoError(t, err)

	// Past the one hour TTL the token no longer verifies
	clock.now = loginTime.Add(2 * time.Hour)
	_, err = provider.Verify(ctx, session.Token)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestRegister_Validation(t *testing.T) {
	valid := ports.RegistrationRequest{
		Username: "newbie",
		Password: "longenough",
		FullName: "Wang Lei",
		Email:    "wang.lei@example.edu",
		Phone:    "+8613800138000",
		Role:     models.RoleViewer,
	}

	tests := []struct {
		name   string
		mutate func(r *ports.RegistrationRequest)
	}{
		{name: "username too short", mutate: func(r *ports.RegistrationRequest) { r.Username = "ab" }},
		{name: "username too long", mutate: func(r *ports.RegistrationRequest) { r.Username = "abcdefghijklmnopqrstu" }},
		{name: "password too short", mutate: func(r *ports.RegistrationRequest) { r.Password = "short" }},
		{name: "missing full name", mutate: func(r *ports.RegistrationRequest) { r.FullName = "" }},
		{name: "bad email", mutate: func(r *ports.RegistrationRequest) { r.Email = "not an email" }},
		{name: "bad phone", mutate: func(r *ports.RegistrationRequest) { r.Phone = "call me" }},
		{name: "bad role", mutate: func(r *ports.RegistrationRequest) { r.Role = "root" }},
	}

	provider := newTestProvider(t, memory.NewStore(), &testClock{now: loginTime})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			_, err := provider.Register(context.Background(), req)
			assert.Error(t, err)
		})
	}
}

func TestRegister_DuplicateRejected(t *testing.T) {
	provider := newTestProvider(t, memory.NewStore(), &testClock{now: loginTime})
	ctx := context.Background()

	req := ports.RegistrationRequest{
		Username: "newbie",
		Password: "longenough",
		FullName: "Wang Lei",
		Email:    "wang.lei@example.edu",
		Role:     models.RoleViewer,
	}
	_, err := provider.Register(ctx, req)
	require.NoError(t, err)

	_, err = provider.Register(ctx, req)
	assert.ErrorIs(t, err, models.ErrAccountExists)

	// Same email under a different username is still a duplicate
	req.Username = "newbie2"
	_, err = provider.Register(ctx, req)
	assert.ErrorIs(t, err, models.ErrAccountExists)

	// The seeded demo usernames are taken as well
	req.Username = "admin"
	req.Email = "other@example.edu"
	_, err = provider.Register(ctx, req)
	assert.ErrorIs(t, err, models.ErrAccountExists)
}

func TestRegister_PersistsAccount(t *testing.T) {
	store := memory.NewStore()
	clock := &testClock{now: loginTime}
	provider := newTestProvider(t, store, clock)
	ctx := context.Background()

	account, err := provider.Register(ctx, ports.RegistrationRequest{
		Username: "newbie",
		Password: "longenough",
		FullName: "Wang Lei",
		Email:    "wang.lei@example.edu",
		Role:     models.RoleEngineer,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusPending, account.Status)
	assert.Empty(t, account.PasswordHash)
	assert.NotEmpty(t, account.ID)

	// A fresh provider over the same store sees the registration
	reloaded := newTestProvider(t, store, clock)
	_, err = reloaded.Authenticate(ctx, "newbie", "longenough")
	assert.ErrorIs(t, err, models.ErrAccountPending)
}
