package session

import (
	"fmt"
	"strings"
)

// State is the connection state of a Session.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// Variant selects the protocol flavour spoken by a Session.
type Variant int

const (
	// VariantBasic never announces its identity and expects the roster
	// resource to answer a bare client count.
	VariantBasic Variant = iota
	// VariantRoster announces user_info right after open and expects
	// roster entries with descriptions.
	VariantRoster
)

func (v Variant) String() string {
	switch v {
	case VariantBasic:
		return "basic"
	case VariantRoster:
		return "roster"
	default:
		return "unknown"
	}
}

func (v Variant) announcesIdentity() bool {
	return v == VariantRoster
}

func (v Variant) requiresDescription() bool {
	return v == VariantRoster
}

func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basic", "base":
		return VariantBasic, nil
	case "roster", "":
		return VariantRoster, nil
	default:
		return 0, fmt.Errorf("unknown variant %q", s)
	}
}
