package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestAccount(t *testing.T) {
	got, err := Account("https://db.example.com:8529/", "root")
	require.NoError(t, err)
	assert.Equal(t, "root@db.example.com:8529", got)

	_, err = Account("localhost", "root")
	assert.Error(t, err)
}

func TestService_PasswordLifecycle(t *testing.T) {
	keyring.MockInit()
	s := NewService()

	got, err := s.GetPassword("root@localhost:8529")
	require.NoError(t, err)
	assert.Empty(t, got, "missing entry should read as empty")

	require.NoError(t, s.SetPassword("root@localhost:8529", "secret"))
	got, err = s.GetPassword("root@localhost:8529")
	require.NoError(t, err)
	assert.Equal(t, "secret", got)

	require.NoError(t, s.SetPassword("root@localhost:8529", ""))
	got, err = s.GetPassword("root@localhost:8529")
	require.NoError(t, err)
	assert.Empty(t, got, "empty password should delete the entry")

	assert.NoError(t, s.DeletePassword("root@localhost:8529"), "deleting a missing entry is not an error")
}
