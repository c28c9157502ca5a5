package infra

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/congo-pay/payout_demo/internal/config"
	"github.com/congo-pay/payout_demo/internal/logging"
)

func TestConnectWithoutDatabaseUsesMemory(t *testing.T) {
	mr := miniredis.RunT(t)

	res, err := Connect(context.Background(), config.Config{RedisURL: "redis://" + mr.Addr()}, logging.Discard())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer res.Close(logging.Discard())

	if res.DB != nil {
		t.Fatal("expected no database")
	}
	if res.Activity == nil {
		t.Fatal("expected in-memory activity repository")
	}
	if res.Cache == nil {
		t.Fatal("expected redis client")
	}
}

func TestConnectRejectsBadRedisURL(t *testing.T) {
	if _, err := Connect(context.Background(), config.Config{RedisURL: "not-a-url"}, logging.Discard()); err == nil {
		t.Fatal("expected error for malformed redis url")
	}
}
