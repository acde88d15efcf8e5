package utils

import (
	"errors"
	"regexp"
	"testing"
	"time"
)

func TestToMinorUnits(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1500", 150000},
		{"19.99", 1999},
		{"0.01", 1},
		{"10.559", 1055},
		{"10.999", 1099},
		{" 250.5 ", 25050},
	}
	for _, tc := range cases {
		got, err := ToMinorUnits(tc.in)
		if err != nil {
			t.Fatalf("ToMinorUnits(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ToMinorUnits(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "abc", "0", "-5", "0.001"} {
		if _, err := ToMinorUnits(bad); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("ToMinorUnits(%q): expected ErrInvalidAmount, got %v", bad, err)
		}
	}
}

func TestGenerateNumericCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9]{6}$`)
	for i := 0; i < 50; i++ {
		code, err := GenerateNumericCode(6)
		if err != nil {
			t.Fatal(err)
		}
		if !pattern.MatchString(code) {
			t.Fatalf("unexpected code %q", code)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := NormalizePhone(" +234 (803) 123-4567 "); got != "+2348031234567" {
		t.Fatalf("got %q", got)
	}
	if got := NormalizePhone("0803+123"); got != "0803123" {
		t.Fatalf("got %q", got)
	}
}

func TestJWTRoundTrip(t *testing.T) {
	m := JWTManager{Secret: []byte("secret"), Issuer: "weddingplanner", AccessTokenTTL: time.Minute}
	token, ttl, err := m.IssueAccessToken("user-1", "a@example.com", "ADMIN")
	if err != nil {
		t.Fatal(err)
	}
	if ttl != time.Minute {
		t.Fatalf("ttl = %s", ttl)
	}
	claims, err := m.ParseAccessToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != "user-1" || claims.Role != "ADMIN" || claims.Email != "a@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	other := JWTManager{Secret: []byte("other"), Issuer: "weddingplanner"}
	if _, err := other.ParseAccessToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
