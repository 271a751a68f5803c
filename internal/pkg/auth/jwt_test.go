package auth

import (
	"testing"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/access"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "storefront-test"},
		JWT: config.JWTConfig{
			Secret:             "0123456789abcdef0123456789abcdef",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager(testConfig())
	actor := access.Actor{
		Role: access.RoleUser,
		Privileges: &access.PrivilegeBundle{
			CanAddProducts: true,
		},
	}

	token, err := manager.GenerateAccessToken(42, "staff@example.com", actor)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.SubjectID != 42 || claims.Email != "staff@example.com" {
		t.Errorf("claims = %+v, identity mismatch", claims)
	}

	got := claims.Actor()
	if got.Role != access.RoleUser {
		t.Errorf("role = %q, want user", got.Role)
	}
	if got.Privileges == nil || !got.Privileges.CanAddProducts || got.Privileges.CanUpdateProducts {
		t.Errorf("privileges = %+v, want add-only", got.Privileges)
	}
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateRefreshToken(7, "shopper@example.com", access.RoleCustomer)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if _, err := manager.ValidateAccessToken(token); err == nil {
		t.Error("refresh token must not validate as access token")
	}
	if _, err := manager.ValidateRefreshToken(token); err != nil {
		t.Errorf("ValidateRefreshToken: %v", err)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	manager := NewJWTManager(testConfig())
	if _, err := manager.ValidateToken("not-a-token"); err == nil {
		t.Error("garbage token should fail validation")
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	if got := ExtractTokenFromHeader("Bearer abc123"); got != "abc123" {
		t.Errorf("got %q, want abc123", got)
	}
	if got := ExtractTokenFromHeader("abc123"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
	if got := ExtractTokenFromHeader(""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
