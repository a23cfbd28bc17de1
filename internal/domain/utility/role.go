package utility

import "strings"

// Role identifies which side of the negotiation a utility belongs to
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// ParseRole normalizes a role string. Humans always buy and automated agents
// always sell, so "human" and "agent" are accepted as aliases.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buyer", "human":
		return RoleBuyer, nil
	case "seller", "agent":
		return RoleSeller, nil
	default:
		return "", NewInvalidAgentRoleError(s)
	}
}

func (r Role) String() string {
	return string(r)
}
