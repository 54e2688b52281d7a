package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetdesk/config"
)

func TestJWTRoundTrip(t *testing.T) {
	config.JWTKey = []byte("test-secret")
	config.JWTExpiration = time.Hour

	token, err := GenerateJWT("u1", "Dana", "dana@corp.test", "technician")
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "Dana", claims.Name)
	assert.Equal(t, "dana@corp.test", claims.Email)
	assert.Equal(t, "technician", claims.Role)
}

func TestValidateJWTRejectsTampering(t *testing.T) {
	config.JWTKey = []byte("test-secret")
	config.JWTExpiration = time.Hour

	token, err := GenerateJWT("u1", "Dana", "dana@corp.test", "viewer")
	require.NoError(t, err)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)

	config.JWTKey = []byte("different-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2pass")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2pass", hash)

	assert.True(t, CheckPasswordHash("hunter2pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
