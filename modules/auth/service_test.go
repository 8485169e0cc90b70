package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	domain "github.com/example/roomchat/domain/user"
	"github.com/example/roomchat/modules/chat"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestService creates an AuthService backed by an in-memory database.
func setupTestService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return NewAuthService(
		NewUserRepository(db),
		NewPasswordHasher(),
		NewJWTManager(testJWTConfig()),
	)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	service := setupTestService(t)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{
			name:     "valid registration",
			username: "alice",
			password: "supersecret",
			wantErr:  nil,
		},
		{
			name:     "empty username",
			username: "",
			password: "supersecret",
			wantErr:  chat.ErrUsernameEmpty,
		},
		{
			name:     "username too long",
			username: strings.Repeat("a", chat.MaxUsernameLength+1),
			password: "supersecret",
			wantErr:  chat.ErrUsernameTooLong,
		},
		{
			name:     "short password",
			username: "bob",
			password: "short",
			wantErr:  ErrWeakPassword,
		},
		{
			name:     "overlong password",
			username: "bob",
			password: strings.Repeat("p", 73),
			wantErr:  ErrPasswordTooLong,
		},
		{
			name:     "duplicate username",
			username: "alice",
			password: "anothersecret",
			wantErr:  ErrUserExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := service.Register(ctx, tt.username, tt.password)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Register() unexpected error: %v", err)
			}
			if user.ID == "" {
				t.Error("Register() user.ID should not be empty")
			}
			if user.Username != tt.username {
				t.Errorf("Register() user.Username = %q, want %q", user.Username, tt.username)
			}
			if user.PasswordHash == tt.password {
				t.Error("Register() must not store the plaintext password")
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	service := setupTestService(t)

	if _, err := service.Register(ctx, "alice", "supersecret"); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	tokens, err := service.Login(ctx, "alice", "supersecret")
	if err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Error("Login() returned empty tokens")
	}
	if tokens.TokenType != "Bearer" {
		t.Errorf("Login() TokenType = %q, want Bearer", tokens.TokenType)
	}

	if _, err := service.Login(ctx, "alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() with wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := service.Login(ctx, "nobody", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() for unknown user error = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	ctx := context.Background()
	service := setupTestService(t)

	if _, err := service.Register(ctx, "alice", "supersecret"); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	tokens, err := service.Login(ctx, "alice", "supersecret")
	if err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}

	claims, err := service.ValidateToken(ctx, tokens.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken() unexpected error: %v", err)
	}
	if claims.Username != "alice" {
		t.Errorf("claims.Username = %q, want alice", claims.Username)
	}

	// A refresh token is not a valid session credential.
	if _, err := service.ValidateToken(ctx, tokens.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateToken(refresh) error = %v, want ErrInvalidToken", err)
	}
}

func TestAuthService_RefreshTokens(t *testing.T) {
	ctx := context.Background()
	service := setupTestService(t)

	if _, err := service.Register(ctx, "alice", "supersecret"); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	tokens, err := service.Login(ctx, "alice", "supersecret")
	if err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}

	refreshed, err := service.RefreshTokens(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshTokens() unexpected error: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Error("RefreshTokens() returned empty tokens")
	}

	if _, err := service.RefreshTokens(ctx, tokens.AccessToken); err == nil {
		t.Error("RefreshTokens() with an access token should fail")
	}
}

func TestAuthService_ListUsernames(t *testing.T) {
	ctx := context.Background()
	service := setupTestService(t)

	for _, username := range []string{"carol", "alice", "bob"} {
		if _, err := service.Register(ctx, username, "supersecret"); err != nil {
			t.Fatalf("Register(%s) unexpected error: %v", username, err)
		}
	}

	usernames, err := service.ListUsernames(ctx)
	if err != nil {
		t.Fatalf("ListUsernames() unexpected error: %v", err)
	}

	want := []string{"alice", "bob", "carol"}
	if len(usernames) != len(want) {
		t.Fatalf("ListUsernames() = %v, want %v", usernames, want)
	}
	for i := range want {
		if usernames[i] != want[i] {
			t.Errorf("ListUsernames()[%d] = %q, want %q", i, usernames[i], want[i])
		}
	}
}
