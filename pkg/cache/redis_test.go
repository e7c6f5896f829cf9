package cache

import (
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestConnectRedisRejectsBadURL(t *testing.T) {
	if _, err := ConnectRedis("not-a-redis-url"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRedisStorageEmptyKeys(t *testing.T) {
	// nothing here touches the network
	s := NewRedisStorage(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), "test:")
	defer s.Close()

	if got := s.key("login:1.2.3.4"); got != "test:login:1.2.3.4" {
		t.Errorf("unexpected key %s", got)
	}
	if val, err := s.Get(""); val != nil || err != nil {
		t.Errorf("empty key: got %v, %v", val, err)
	}
	if err := s.Set("", []byte("1"), 0); err != nil {
		t.Errorf("empty key set: %v", err)
	}
	if err := s.Set("k", nil, 0); err != nil {
		t.Errorf("empty value set: %v", err)
	}
	if err := s.Delete(""); err != nil {
		t.Errorf("empty key delete: %v", err)
	}
}
