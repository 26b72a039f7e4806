package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_GenerateAndParseToken(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	maker := NewMaker(secretKey, 15*time.Minute)

	tests := []struct {
		name    string
		userUID string
		email   string
	}{
		{
			name:    "regular user",
			userUID: "a3f1c882-7e0b-4c55-9a3d-1f2e3d4c5b6a",
			email:   "a@x.com",
		},
		{
			name:    "long email",
			userUID: "b7e2d991-1a2b-4c3d-8e9f-0a1b2c3d4e5f",
			email:   "first.last+tag@sub.example.org",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.userUID, tt.email)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.userUID, claims.UserUID)
			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.userUID, claims.Subject)
			assert.True(t, claims.ExpiresAt.After(time.Now()))
		})
	}
}

func TestMaker_ParseToken_Expired(t *testing.T) {
	maker := NewMaker("test_secret_key_1234567890", -time.Minute)

	token, err := maker.GenerateToken("uid-1", "a@x.com")
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	assert.Error(t, err)
}

func TestMaker_ParseToken_WrongKey(t *testing.T) {
	maker := NewMaker("correct_secret_key", 15*time.Minute)
	other := NewMaker("another_secret_key", 15*time.Minute)

	token, err := maker.GenerateToken("uid-1", "a@x.com")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestMaker_ParseToken_Garbage(t *testing.T) {
	maker := NewMaker("test_secret_key_1234567890", 15*time.Minute)

	_, err := maker.ParseToken("not.a.token")
	assert.Error(t, err)
}
