package utils

import (
	"testing"
	"time"
)

func TestSafeEnv(t *testing.T) {
	const key = "_PEERLENS_TEST_SAFEENV"
	t.Setenv(key, "")
	if got := SafeEnv(key, "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv(key, "value")
	if got := SafeEnv(key, "fallback"); got != "value" {
		t.Fatalf("expected 'value', got %q", got)
	}
}

func TestEnvInt(t *testing.T) {
	const key = "_PEERLENS_TEST_ENVINT"
	cases := []struct {
		val  string
		want int
	}{
		{"", 4},
		{"7", 7},
		{"seven", 4},
	}
	for _, tc := range cases {
		t.Setenv(key, tc.val)
		if got := EnvInt(key, 4); got != tc.want {
			t.Fatalf("EnvInt(%q)=%d, want %d", tc.val, got, tc.want)
		}
	}
}

func TestEnvDuration(t *testing.T) {
	const key = "_PEERLENS_TEST_ENVDURATION"
	t.Setenv(key, "90m")
	if got := EnvDuration(key, time.Hour); got != 90*time.Minute {
		t.Fatalf("got %v, want 90m", got)
	}
	t.Setenv(key, "soon")
	if got := EnvDuration(key, time.Hour); got != time.Hour {
		t.Fatalf("got %v, want fallback", got)
	}
}
