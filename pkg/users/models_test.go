package users

import "testing"

func TestResolvedDisplayName(t *testing.T) {
	cases := []struct {
		name string
		user User
		want string
	}{
		{"display name wins", User{DisplayName: "GBM Warrior", FirstName: "Ana"}, "GBM Warrior"},
		{"first name fallback", User{FirstName: "Ana"}, "Ana"},
		{"anonymous fallback", User{}, "Anonymous"},
	}

	for _, tc := range cases {
		if got := tc.user.ResolvedDisplayName(); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}
