package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procifarmed/storefront-api/pkg/db/dbtest"
	"github.com/procifarmed/storefront-api/pkg/enums"
	pkgerrors "github.com/procifarmed/storefront-api/pkg/errors"
)

func TestCreateNormalizesEmailAndRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t).DB())

	user, err := repo.Create(ctx, CreateUserDTO{Email: "  Maria@Exemplo.com ", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, "maria@exemplo.com", user.Email)
	assert.True(t, user.IsActive)

	found, err := repo.FindByEmail(ctx, "MARIA@exemplo.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.Create(ctx, CreateUserDTO{Email: "maria@exemplo.com", PasswordHash: "other"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "expected conflict, got %v", err)
}

func TestRolesAndAdminCheck(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t).DB())

	user, err := repo.Create(ctx, CreateUserDTO{Email: "admin@procifarmed.com.br", PasswordHash: "hash"})
	require.NoError(t, err)

	isAdmin, err := repo.IsAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	require.NoError(t, repo.GrantRole(ctx, user.ID, enums.RoleAdmin))
	require.NoError(t, repo.GrantRole(ctx, user.ID, enums.RoleAdmin))

	isAdmin, err = repo.IsAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestUpdateLastLogin(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t).DB())

	user, err := repo.Create(ctx, CreateUserDTO{Email: "login@exemplo.com", PasswordHash: "hash"})
	require.NoError(t, err)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)
	assert.True(t, reloaded.LastLoginAt.Equal(at))
}
