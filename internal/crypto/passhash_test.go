package crypto

import (
	"bytes"
	"testing"
)

func TestRandBytes_LengthAndUniqueness(t *testing.T) {
	t.Parallel()

	const n = 64
	a, err := RandBytes(n)
	if err != nil {
		t.Fatalf("RandBytes: %v", err)
	}
	if len(a) != n {
		t.Fatalf("len=%d, want=%d", len(a), n)
	}
	b, err := RandBytes(n)
	if err != nil {
		t.Fatalf("RandBytes(2): %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("two subsequent RandBytes(%d) are equal, looks non-random", n)
	}
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	pw := []byte("correct horse battery staple")
	salt := []byte("salty-salt-123456")

	hash := HashPassword(pw, salt)

	if !VerifyPassword(pw, salt, hash) {
		t.Fatalf("VerifyPassword: expected true for correct password")
	}
	if VerifyPassword([]byte("wrong"), salt, hash) {
		t.Fatalf("VerifyPassword: expected false for wrong password")
	}
	if VerifyPassword(pw, []byte("wrong-salt"), hash) {
		t.Fatalf("VerifyPassword: expected false for wrong salt")
	}
}

func TestConstantTimeEqual(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want bool
	}{
		{"abc", "abc", true},
		{"", "", true},
		{"abc", "abd", false},
		{"abc", "abcd", false},
		{"", "x", false},
	}
	for _, c := range cases {
		if got := ConstantTimeEqual([]byte(c.a), []byte(c.b)); got != c.want {
			t.Fatalf("ConstantTimeEqual(%q,%q)=%v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestMasterKey_Verify(t *testing.T) {
	t.Parallel()

	k, err := NewMasterKey("hunter2")
	if err != nil {
		t.Fatalf("NewMasterKey: %v", err)
	}
	if !k.Verify("hunter2") {
		t.Fatalf("expected master password to verify")
	}
	for _, bad := range []string{"", "hunter", "hunter22", "Hunter2"} {
		if k.Verify(bad) {
			t.Fatalf("unexpected match for %q", bad)
		}
	}

	k2, err := NewMasterKey("hunter2")
	if err != nil {
		t.Fatalf("NewMasterKey(2): %v", err)
	}
	if bytes.Equal(k.salt, k2.salt) || bytes.Equal(k.hash, k2.hash) {
		t.Fatalf("each master key must use its own salt")
	}
}
