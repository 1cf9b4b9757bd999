package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/neuanfang/internal/db"
)

func TestRevokeToken(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if revoked, _ := IsTokenRevoked(ctx, database, "jti-kueche"); revoked {
		t.Fatal("expected fresh token not to be revoked")
	}

	if err := RevokeToken(ctx, database, "jti-kueche", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	// Revoking twice is a no-op.
	if err := RevokeToken(ctx, database, "jti-kueche", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("second RevokeToken: %v", err)
	}

	revoked, err := IsTokenRevoked(ctx, database, "jti-kueche")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if !revoked {
		t.Error("expected token to be revoked")
	}

	if revoked, _ := IsTokenRevoked(ctx, database, "jti-bad"); revoked {
		t.Error("expected other token not to be revoked")
	}
}

func TestRevokeTokenPurgesExpired(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	RevokeToken(ctx, database, "old", time.Now().Add(-time.Hour))
	RevokeToken(ctx, database, "new", time.Now().Add(time.Hour))

	if revoked, _ := IsTokenRevoked(ctx, database, "old"); revoked {
		t.Error("expected expired revocation to be purged")
	}
	if revoked, _ := IsTokenRevoked(ctx, database, "new"); !revoked {
		t.Error("expected live revocation to remain")
	}
}
