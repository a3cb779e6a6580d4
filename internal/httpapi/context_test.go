package httpapi

import (
	"context"
	"testing"
	"time"
)

func TestJoinContexts_CancelsWhenEitherDone(t *testing.T) {
	a, cancelA := context.WithCancel(context.Background())
	b := context.Background()
	ctx, cancel := joinContexts(a, b)
	defer cancel()
	cancelA()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("joined context not canceled")
	}
}

func TestSetBaseContext_NilResets(t *testing.T) {
	SetBaseContext(nil)
	if serverBaseCtx != context.Background() {
		t.Fatal("expected background context")
	}
}
