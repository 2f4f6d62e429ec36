package view

import "strings"

// Role is the side of the conversation a speaker is shown on.
type Role int

const (
	// RoleAgent - support agent, rendered on the left.
	RoleAgent Role = iota
	// RoleCustomer - caller, rendered on the right.
	RoleCustomer
)

// agentMarker identifies the agent among the two diarized speaker labels.
const agentMarker = "00"

// ClassifySpeaker maps a speaker id to a role. Only two speakers are
// expected: any id containing "00" is the agent, everything else the customer.
func ClassifySpeaker(speaker string) Role {
	if strings.Contains(speaker, agentMarker) {
		return RoleAgent
	}
	return RoleCustomer
}

// String returns the role name.
func (r Role) String() string {
	if r == RoleAgent {
		return "agent"
	}
	return "customer"
}

// MarshalText encodes the role by name.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Label is the speaker caption shown above a message.
func (r Role) Label() string {
	if r == RoleAgent {
		return "Speaker 00 (Agent)"
	}
	return "Speaker 01 (Customer)"
}

// Align is the horizontal side of the message bubble.
func (r Role) Align() string {
	if r == RoleAgent {
		return "left"
	}
	return "right"
}
