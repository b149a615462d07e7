package requestctx

import (
	"context"
	"testing"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	if GetRequestID(ctx) != "" || GetActor(ctx) != "" || GetClientIP(ctx) != "" {
		t.Fatalf("expected empty values on bare context")
	}
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithActor(ctx, "emp-1")
	ctx = WithClientIP(ctx, "10.0.0.1")
	if GetRequestID(ctx) != "req-1" || GetActor(ctx) != "emp-1" || GetClientIP(ctx) != "10.0.0.1" {
		t.Fatalf("unexpected values: %s %s %s", GetRequestID(ctx), GetActor(ctx), GetClientIP(ctx))
	}
}
