package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var chatKeys = []string{
	"MESSAGE_LOG_CAPACITY", "MESSAGE_LOG_EVICT", "READ_RECEIPT_DELAY",
	"DEFAULT_ROOM", "ROOMS", "PAGE_SIZE", "SEARCH_LIMIT",
}

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestLoadChatDefaults(t *testing.T) {
	clearEnv(t, chatKeys...)

	cfg := LoadChat()

	assert.Equal(t, ChatConfig{
		MessageLogCapacity: 1000,
		MessageLogEvict:    100,
		ReadReceiptDelay:   time.Second,
		DefaultRoom:        "general",
		Rooms:              []string{"general", "random", "tech"},
		PageSize:           50,
		SearchLimit:        50,
	}, cfg)
}

func TestLoadChatOverrides(t *testing.T) {
	clearEnv(t, chatKeys...)
	t.Setenv("MESSAGE_LOG_CAPACITY", "20")
	t.Setenv("MESSAGE_LOG_EVICT", "5")
	t.Setenv("READ_RECEIPT_DELAY", "250ms")
	t.Setenv("DEFAULT_ROOM", "lobby")
	t.Setenv("ROOMS", " lobby, ops ,,dev ")

	cfg := LoadChat()

	assert.Equal(t, 20, cfg.MessageLogCapacity)
	assert.Equal(t, 5, cfg.MessageLogEvict)
	assert.Equal(t, 250*time.Millisecond, cfg.ReadReceiptDelay)
	assert.Equal(t, "lobby", cfg.DefaultRoom)
	assert.Equal(t, []string{"lobby", "ops", "dev"}, cfg.Rooms)
}

func TestLoad(t *testing.T) {
	clearEnv(t, chatKeys...)
	clearEnv(t, "PORT", "ALLOWED_ORIGINS", "MAX_MESSAGE_SIZE", "RATE_LIMIT_BURST", "RATE_LIMIT_INTERVAL", "LOG_LEVEL", "JWT_EXPIRES_IN", "SHUTDOWN_TIMEOUT")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []byte("s3cret"), cfg.JWT.Secret)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpiresIn)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.WebSocket.AllowedOrigins)
	assert.Equal(t, int64(64*1024), cfg.WebSocket.MaxMessageSize)
	assert.Equal(t, 20, cfg.WebSocket.RateLimitBurst)
	assert.Equal(t, time.Second, cfg.WebSocket.RateLimitInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "general", cfg.Chat.DefaultRoom)
}

func TestGetListOrDefault(t *testing.T) {
	tests := []struct {
		name  string
		value string
		def   string
		want  []string
	}{
		{name: "default used when unset", value: "", def: "*", want: []string{"*"}},
		{name: "trims and drops blanks", value: " a ,, b,", def: "*", want: []string{"a", "b"}},
		{name: "only separators", value: ",,", def: "*", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_LIST", tt.value)
			assert.Equal(t, tt.want, getListOrDefault("TEST_LIST", tt.def))
		})
	}
}

func TestLoadChatAddsDefaultRoomToList(t *testing.T) {
	clearEnv(t, chatKeys...)
	t.Setenv("DEFAULT_ROOM", "lobby")
	t.Setenv("ROOMS", "ops,dev")

	cfg := LoadChat()

	assert.Equal(t, []string{"lobby", "ops", "dev"}, cfg.Rooms)
}

func TestChatConfigValidate(t *testing.T) {
	valid := ChatConfig{MessageLogCapacity: 1000, MessageLogEvict: 100, ReadReceiptDelay: time.Second, PageSize: 50, SearchLimit: 50}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*ChatConfig)
		want   string
	}{
		{name: "zero capacity", mutate: func(c *ChatConfig) { c.MessageLogCapacity = 0 }, want: "MESSAGE_LOG_CAPACITY"},
		{name: "evict above capacity", mutate: func(c *ChatConfig) { c.MessageLogEvict = 2000 }, want: "MESSAGE_LOG_EVICT"},
		{name: "zero delay", mutate: func(c *ChatConfig) { c.ReadReceiptDelay = 0 }, want: "READ_RECEIPT_DELAY"},
		{name: "negative delay", mutate: func(c *ChatConfig) { c.ReadReceiptDelay = -time.Second }, want: "READ_RECEIPT_DELAY"},
		{name: "zero page size", mutate: func(c *ChatConfig) { c.PageSize = 0 }, want: "PAGE_SIZE"},
		{name: "zero search limit", mutate: func(c *ChatConfig) { c.SearchLimit = 0 }, want: "SEARCH_LIMIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}
