package config

import (
	"testing"
	"time"
)

// Without REDIS_ADDRESS every redis helper must degrade to a no-op so
// callers (report cache, ingestion invalidation, distributed lock) never
// need their own nil checks.
func TestRedisHelpers_Unconfigured(t *testing.T) {
	if GetRedisDB() != nil {
		t.Skip("redis is configured in this environment")
	}
	if GetRedisLock() != nil {
		t.Fatal("expected nil lock client without redis")
	}

	var dest string
	found, err := GetRedisObject("report:dashboard:-..-", &dest)
	if err != nil || found {
		t.Fatalf("GetRedisObject expected miss without error, got found=%v err=%v", found, err)
	}
	if err := SetRedisObject("report:dashboard:-..-", "x", time.Minute); err != nil {
		t.Fatalf("SetRedisObject: %v", err)
	}
	if err := RemoveRedisKey("report:dashboard:-..-"); err != nil {
		t.Fatalf("RemoveRedisKey: %v", err)
	}
	if err := RemoveRedisKeysByPattern("report:*"); err != nil {
		t.Fatalf("RemoveRedisKeysByPattern: %v", err)
	}
}
