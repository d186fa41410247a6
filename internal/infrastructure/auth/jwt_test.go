package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret", "coachly-identity")

	token, err := svc.Issue("user-42", []string{"admin"}, time.Hour)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, []string{"admin"}, claims.Roles)
}

func TestJWTService_Verify_Rejects(t *testing.T) {
	svc := NewJWTService("test-secret", "coachly-identity")

	expired, err := svc.Issue("user-42", nil, -time.Minute)
	require.NoError(t, err)

	otherKey, err := NewJWTService("other-secret", "coachly-identity").Issue("user-42", nil, time.Hour)
	require.NoError(t, err)

	otherIssuer, err := NewJWTService("test-secret", "someone-else").Issue("user-42", nil, time.Hour)
	require.NoError(t, err)

	noSubject, err := svc.Issue("", nil, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "expired", token: expired},
		{name: "wrong key", token: otherKey},
		{name: "wrong issuer", token: otherIssuer},
		{name: "missing subject", token: noSubject},
		{name: "garbage", token: "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			assert.Error(t, err)
		})
	}
}
