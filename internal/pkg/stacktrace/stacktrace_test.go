package stacktrace

import (
	"slices"
	"testing"
)

func TestInternalPaths(t *testing.T) {
	stack := []byte(`goroutine 7 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/otpbot/internal/pkg/router.middlewareRecoverer.func1.1()
	/app/internal/pkg/router/middleware_recover.go:31 +0x85
panic({0x9a1b20?, 0xc0001a6f30?})
	/usr/local/go/src/runtime/panic.go:785 +0x132
github.com/shandysiswandi/otpbot/internal/otpbot/inbound.(*HTTPEndpoint).Webhook(...)
	/app/internal/otpbot/inbound/http_endpoint.go:52
`)

	want := []string{
		"internal/pkg/router/middleware_recover.go:31",
		"internal/otpbot/inbound/http_endpoint.go:52",
	}

	if got := InternalPaths(stack); !slices.Equal(got, want) {
		t.Fatalf("InternalPaths() = %v, want %v", got, want)
	}
}

func TestInternalPathsEmpty(t *testing.T) {
	if got := InternalPaths(nil); len(got) != 0 {
		t.Fatalf("InternalPaths(nil) = %v, want empty", got)
	}
}
