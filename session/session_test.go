package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/benleytuano/taskmap-frontend/models"
)

func signedToken(t *testing.T, expiresAt *time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "42"}
	if expiresAt != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*expiresAt)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestTokenExpired(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name    string
		token   string
		expired bool
	}{
		{name: "empty token", token: "", expired: true},
		{name: "garbage token", token: "session-opaque-cookie", expired: true},
		{name: "expired token", token: signedToken(t, &past), expired: true},
		{name: "live token", token: signedToken(t, &future), expired: false},
		{name: "no expiry claim", token: signedToken(t, nil), expired: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TokenExpired(tc.token, now); got != tc.expired {
				t.Fatalf("TokenExpired = %v, want %v", got, tc.expired)
			}
		})
	}
}

func TestSessionClear(t *testing.T) {
	s := New()
	if _, ok := s.User(); ok {
		t.Fatal("fresh session should be empty")
	}

	s.SetUser(&models.User{ID: 7, Name: "Ana"})
	user, ok := s.User()
	if !ok || user.ID != 7 {
		t.Fatalf("user = %+v, %v", user, ok)
	}

	if !s.InFlight().Begin("op") {
		t.Fatal("begin should succeed")
	}

	s.Clear()
	if _, ok := s.User(); ok {
		t.Fatal("cleared session should be empty")
	}
	// Clear releases in-flight markers too.
	if !s.InFlight().Begin("op") {
		t.Fatal("op should be free after Clear")
	}
}

func TestInFlight(t *testing.T) {
	f := NewInFlight()

	if !f.Begin("save") {
		t.Fatal("first begin should succeed")
	}
	if f.Begin("save") {
		t.Fatal("duplicate begin must fail")
	}
	if !f.Active("save") {
		t.Fatal("op should be active")
	}
	if !f.Begin("delete") {
		t.Fatal("unrelated op should not be blocked")
	}

	f.End("save")
	if f.Active("save") {
		t.Fatal("ended op should be inactive")
	}
	if !f.Begin("save") {
		t.Fatal("begin after end should succeed")
	}
}

func TestMemberPicker(t *testing.T) {
	users := []models.User{{ID: 1, Name: "Ana"}, {ID: 2, Name: "Ben"}}
	p := NewMemberPicker(users)

	p.Toggle(2)
	p.Toggle(1)
	if got := p.Selected(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("Selected = %v, want sorted [1 2]", got)
	}

	p.Toggle(2)
	if got := p.Selected(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("Selected = %v after untoggle", got)
	}

	p.SetSearch("an")
	if p.Search() != "an" {
		t.Fatalf("Search = %q", p.Search())
	}

	// The snapshot is copied out; mutating it does not affect the picker.
	snapshot := p.Users()
	snapshot[0].Name = "changed"
	if p.Users()[0].Name != "Ana" {
		t.Fatal("picker snapshot must not be externally mutable")
	}
}
