package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amiseo/cockpit/internal/models"
	"github.com/amiseo/cockpit/internal/store"
)

type userMap map[string]models.UserRecord

func (m userMap) ByUsername(username string) (models.UserRecord, error) {
	if u, ok := m[username]; ok {
		return u, nil
	}
	return models.UserRecord{}, store.ErrNotFound
}

func TestVerifyBcryptPassword(t *testing.T) {
	hash, err := HashPassword("correct")
	require.NoError(t, err)
	v := NewVerifier(userMap{"admin": {ID: "u1", Username: "admin", Password: hash}})

	user, err := v.Verify("admin", "correct")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	_, err = v.Verify("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyLegacyPlaintextPassword(t *testing.T) {
	v := NewVerifier(userMap{"martin": {ID: "u2", Username: "martin", Password: "secret"}})

	_, err := v.Verify("martin", "secret")
	require.NoError(t, err)

	_, err = v.Verify("martin", "Secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyUnknownUser(t *testing.T) {
	v := NewVerifier(userMap{})
	_, err := v.Verify("ghost", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSessionRoundTrip(t *testing.T) {
	s := NewSessions("test-secret")
	user := models.UserRecord{
		ID: "u1", Username: "admin", Role: models.RoleAdmin,
		DisplayName: "Équipe", ClientID: "",
	}

	token, err := s.Token(user)
	require.NoError(t, err)

	p, err := s.Principal(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "admin", p.Username)
	assert.True(t, p.IsAdmin())
	assert.Equal(t, "Équipe", p.DisplayName)
}

func TestSessionCarriesClientAssociation(t *testing.T) {
	s := NewSessions("test-secret")
	token, err := s.Token(models.UserRecord{
		ID: "u2", Username: "martin", Role: models.RoleClient, ClientID: "c2",
	})
	require.NoError(t, err)

	p, err := s.Principal(token)
	require.NoError(t, err)
	assert.False(t, p.IsAdmin())
	assert.Equal(t, "c2", p.ClientID)
}

func TestSessionRejectsTamperedToken(t *testing.T) {
	token, err := NewSessions("test-secret").Token(models.UserRecord{ID: "u1", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = NewSessions("other-secret").Principal(token)
	assert.Error(t, err)
}

func TestSessionRejectsExpiredToken(t *testing.T) {
	s := NewSessions("test-secret")
	token, err := s.Token(models.UserRecord{ID: "u1"})
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(SessionTTL + time.Hour) }
	_, err = s.Principal(token)
	assert.Error(t, err)
}

func TestSessionRejectsGarbage(t *testing.T) {
	s := NewSessions("test-secret")
	_, err := s.Principal("")
	assert.Error(t, err)
	_, err = s.Principal("not-a-token")
	assert.Error(t, err)
}
