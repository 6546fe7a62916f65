package metrics

import (
	"context"
	"testing"
)

func TestStartServer_DisabledWhenAddrEmpty(t *testing.T) {
	for _, addr := range []string{"", "   "} {
		srv, errCh := StartServer(context.Background(), addr)
		if srv != nil {
			t.Fatalf("StartServer(%q) srv = %v, want nil", addr, srv)
		}
		if errCh != nil {
			t.Fatalf("StartServer(%q) errCh != nil, want nil", addr)
		}
	}
}
