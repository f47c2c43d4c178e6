package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"chat-relay/internal/config"
	"chat-relay/internal/database"
	"chat-relay/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memoryUsers struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*models.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[int]*models.User)}
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, database.ErrUserNotFound
}

func (m *memoryUsers) CreateUser(_ context.Context, req *models.RegisterRequest) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == req.Email || u.Username == req.Username {
			return nil, database.ErrUserExists
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	m.nextID++
	u := &models.User{ID: m.nextID, Username: req.Username, Email: req.Email, PasswordHash: string(hash)}
	m.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (m *memoryUsers) GetUserByID(_ context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, database.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func newTestService() (*Service, *memoryUsers) {
	users := newMemoryUsers()
	return NewService(users, config.JWTConfig{Secret: []byte("test-secret"), ExpiresIn: time.Hour}), users
}

func registerAlice(t *testing.T, s *Service) *models.LoginResponse {
	t.Helper()
	resp, err := s.Register(context.Background(), &models.RegisterRequest{
		Username: "  alice ",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return resp
}

func TestService_RegisterLoginAndResolve(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	registered := registerAlice(t, s)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "alice", registered.User.Username)
	assert.Empty(t, registered.User.PasswordHash)

	login, err := s.Login(ctx, &models.LoginRequest{Email: "alice@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Empty(t, login.User.PasswordHash)

	user, err := s.GetUserFromToken(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)

	claims, err := s.ValidateToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims["username"])
}

func TestService_RegisterDuplicate(t *testing.T) {
	s, _ := newTestService()
	registerAlice(t, s)

	_, err := s.Register(context.Background(), &models.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})

	assert.ErrorIs(t, err, database.ErrUserExists)
}

func TestService_LoginFailures(t *testing.T) {
	s, _ := newTestService()
	registerAlice(t, s)

	tests := []struct {
		name string
		req  models.LoginRequest
	}{
		{name: "wrong password", req: models.LoginRequest{Email: "alice@example.com", Password: "battery-staple"}},
		{name: "unknown email", req: models.LoginRequest{Email: "bob@example.com", Password: "correct-horse"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Login(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestService_RejectsBadTokens(t *testing.T) {
	s, users := newTestService()
	token := registerAlice(t, s).Token

	other := NewService(users, config.JWTConfig{Secret: []byte("another-secret"), ExpiresIn: time.Hour})
	_, err := other.GetUserFromToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong secret")

	_, err = s.GetUserFromToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken, "garbage")

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = s.GetUserFromToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")
}

func TestService_RejectsTokenWithoutUserID(t *testing.T) {
	s, _ := newTestService()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString(s.cfg.Secret)
	require.NoError(t, err)

	_, err = s.GetUserFromToken(context.Background(), token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_RejectsNonHMACTokens(t *testing.T) {
	s, _ := newTestService()
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.ValidateToken(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_TokenForDeletedUser(t *testing.T) {
	s, users := newTestService()
	resp := registerAlice(t, s)
	delete(users.users, resp.User.ID)

	_, err := s.GetUserFromToken(context.Background(), resp.Token)

	assert.ErrorIs(t, err, database.ErrUserNotFound)
}

func TestValidateRegistrationRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     models.RegisterRequest
		wantErr string
	}{
		{name: "valid", req: models.RegisterRequest{Username: "alice", Email: "a@example.com", Password: "12345678"}},
		{name: "missing fields", req: models.RegisterRequest{Email: "a@example.com"}, wantErr: "missing required fields"},
		{name: "bad email", req: models.RegisterRequest{Username: "alice", Email: "not-an-email", Password: "12345678"}, wantErr: "invalid email format"},
		{name: "short password", req: models.RegisterRequest{Username: "alice", Email: "a@example.com", Password: "short"}, wantErr: "password must be at least 8 characters long"},
		{name: "short username", req: models.RegisterRequest{Username: " al ", Email: "a@example.com", Password: "12345678"}, wantErr: "username must be 3-30 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRegistrationRequest(&tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
