package service_test

import (
	"testing"
	"time"

	"github.com/forumdash/amo-analytics-api/internal/auth"
	"github.com/forumdash/amo-analytics-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var dashboardCreds = service.Credentials{Username: "admin", Password: "admin123", DisplayName: "Administrator"}

func TestAuthService_Login(t *testing.T) {
	svc := service.NewAuthService(dashboardCreds, auth.NewTokenIssuer("", 0), zap.NewNop())

	resp, err := svc.Login("admin", "admin123")

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Administrator", resp.User.Name)
	assert.Empty(t, resp.Token)
}

func TestAuthService_LoginRejected(t *testing.T) {
	svc := service.NewAuthService(dashboardCreds, nil, zap.NewNop())

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "admin"},
		{"wrong user", "root", "admin123"},
		{"empty", "", ""},
		{"prefix", "admin", "admin1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(tt.username, tt.password)
			assert.ErrorIs(t, err, service.ErrInvalidCredentials)
			assert.Nil(t, resp)
		})
	}
}

func TestAuthService_LoginIssuesToken(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	svc := service.NewAuthService(dashboardCreds, issuer, zap.NewNop())

	resp, err := svc.Login("admin", "admin123")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	user, err := issuer.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, "Administrator", user.DisplayName)
}
