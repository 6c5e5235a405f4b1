package role

import "testing"

func TestFromString(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{in: "USER", want: User},
		{in: "ADMIN", want: Admin},
		{in: "admin", want: Unknown},
		{in: "", want: Unknown},
		{in: "ROOT", want: Unknown},
	}

	for _, tt := range tests {
		if got := FromString(tt.in); got != tt.want {
			t.Errorf("FromString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		name string
		role Role
		min  Role
		want bool
	}{
		{name: "user meets user", role: User, min: User, want: true},
		{name: "user below admin", role: User, min: Admin, want: false},
		{name: "admin meets user", role: Admin, min: User, want: true},
		{name: "admin meets admin", role: Admin, min: Admin, want: true},
		{name: "unknown never sufficient", role: Unknown, min: User, want: false},
		{name: "unknown not even vs unknown", role: Unknown, min: Unknown, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.AtLeast(tt.min); got != tt.want {
				t.Errorf("%q.AtLeast(%q) = %v, want %v", tt.role, tt.min, got, tt.want)
			}
		})
	}
}
