package tests

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"campusride/internal/service"
)

// stubCodeChecker reports a collision for the first N checks.
type stubCodeChecker struct {
	collisions int32
	calls      int32
}

func (s *stubCodeChecker) SharedCodeExists(ctx context.Context, code string) (bool, error) {
	n := atomic.AddInt32(&s.calls, 1)
	return n <= s.collisions, nil
}

func TestShareCode_FormatIsFourUppercaseAlphanumerics(t *testing.T) {
	gen := service.NewShareCodeGenerator(&stubCodeChecker{})

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	for i := 0; i < 100; i++ {
		code, err := gen.Generate(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(code) != 4 {
			t.Fatalf("expected 4 characters, got %q", code)
		}
		for _, ch := range code {
			if !strings.ContainsRune(alphabet, ch) {
				t.Fatalf("unexpected character %q in code %q", ch, code)
			}
		}
	}
}

func TestShareCode_RetriesOnCollision(t *testing.T) {
	checker := &stubCodeChecker{collisions: 2}
	gen := service.NewShareCodeGenerator(checker)

	code, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code == "" {
		t.Error("expected a code after retries")
	}
	if checker.calls != 3 {
		t.Errorf("expected 3 uniqueness checks, got %d", checker.calls)
	}
}

func TestShareCode_ExhaustsAfterMaxAttempts(t *testing.T) {
	checker := &stubCodeChecker{collisions: 1000}
	gen := service.NewShareCodeGenerator(checker)

	_, err := gen.Generate(context.Background())
	if err != service.ErrShareCodeExhausted {
		t.Errorf("expected ErrShareCodeExhausted, got %v", err)
	}
	if checker.calls != 6 {
		t.Errorf("expected 6 attempts before giving up, got %d", checker.calls)
	}
}

func TestNormalizeShareCode(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"ab3d", "AB3D"},
		{"  AB3D ", "AB3D"},
		{"ab3d\n", "AB3D"},
	}

	for _, tc := range testCases {
		if got := service.NormalizeShareCode(tc.in); got != tc.want {
			t.Errorf("NormalizeShareCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
