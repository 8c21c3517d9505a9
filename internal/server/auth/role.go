package auth

import "fmt"

// Role is a capability tag attached to an identity when its token is issued.
// The set is closed; the zero value is not a valid role.
type Role uint8

const (
	Unprivileged Role = iota + 1
	NormalUser
	Moderator
	Admin
)

var roleNames = map[Role]string{
	Unprivileged: "unprivileged",
	NormalUser:   "normal_user",
	Moderator:    "moderator",
	Admin:        "admin",
}

// implies lists, for every role, the roles it stands in for.
var implies = map[Role][]Role{
	Admin:        {Admin, Moderator, NormalUser, Unprivileged},
	Moderator:    {Moderator, NormalUser, Unprivileged},
	NormalUser:   {NormalUser, Unprivileged},
	Unprivileged: {Unprivileged},
}

// ParseRole maps a role name back to its Role.
func ParseRole(name string) (Role, error) {
	for r, n := range roleNames {
		if n == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", name)
}

// ParseRoles parses every name; the first unknown name fails the whole call.
func ParseRoles(names []string) ([]Role, error) {
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		r, err := ParseRole(n)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, nil
}

// RoleNames is the inverse of ParseRoles.
func RoleNames(roles []Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.String())
	}
	return names
}

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// Satisfies reports whether holding r is enough for an action requiring
// required: admin ⊇ moderator ⊇ normal_user ⊇ unprivileged.
func (r Role) Satisfies(required Role) bool {
	for _, granted := range implies[r] {
		if granted == required {
			return true
		}
	}
	return false
}

// AnySatisfies reports whether at least one of roles satisfies required.
func AnySatisfies(roles []Role, required Role) bool {
	for _, r := range roles {
		if r.Satisfies(required) {
			return true
		}
	}
	return false
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", r)
	}
	return []byte(roleNames[r]), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
