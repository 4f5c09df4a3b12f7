package pg

import (
	"testing"

	"github.com/reachout-dev/reachout/internal/domain"
	internal_errors "github.com/reachout-dev/reachout/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSaveAccount(t *testing.T, email string) domain.Account {
	t.Helper()
	account, err := storage.SaveAccount(domain.Account{Name: "Test User", Email: email, PassHash: "hash"})
	require.NoError(t, err, "SaveAccount should not return an error")
	return account
}

func TestSaveAccount(t *testing.T) {
	account := mustSaveAccount(t, "save@example.com")
	assert.NotEmpty(t, account.Id)
	assert.False(t, account.CreatedAt.IsZero())

	_, err := storage.SaveAccount(domain.Account{Name: "Other", Email: "save@example.com", PassHash: "hash"})
	require.Error(t, err, "saving the same email twice should return an error")
	assert.Equal(t, 409, internal_errors.StatusCode(err))
}

func TestAccountByEmail(t *testing.T) {
	saved := mustSaveAccount(t, "byemail@example.com")

	account, err := storage.AccountByEmail("byemail@example.com")
	require.NoError(t, err)
	assert.Equal(t, saved.Id, account.Id)
	assert.Equal(t, "Test User", account.Name)
	assert.Equal(t, "hash", account.PassHash)
	assert.Empty(t, account.RefreshHash)

	_, err = storage.AccountByEmail("nonexistent@example.com")
	require.Error(t, err)
	assert.Equal(t, 404, internal_errors.StatusCode(err))
}

func TestAccountByID(t *testing.T) {
	saved := mustSaveAccount(t, "byid@example.com")

	account, err := storage.AccountByID(saved.Id)
	require.NoError(t, err)
	assert.Equal(t, "byid@example.com", account.Email)

	_, err = storage.AccountByID("00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
	assert.Equal(t, 404, internal_errors.StatusCode(err))
}

func TestUpdateRefreshHash(t *testing.T) {
	saved := mustSaveAccount(t, "refresh@example.com")

	err := storage.UpdateRefreshHash(saved.Id, "new-hash")
	require.NoError(t, err)

	account, err := storage.AccountByID(saved.Id)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", account.RefreshHash)

	err = storage.UpdateRefreshHash("00000000-0000-0000-0000-000000000000", "hash")
	require.Error(t, err)
	assert.Equal(t, 404, internal_errors.StatusCode(err))
}
