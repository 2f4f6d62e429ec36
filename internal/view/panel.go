package view

import "fmt"

// PanelState is which of a panel's mutually exclusive renderings applies.
type PanelState int

const (
	// PanelLoading - a refresh is outstanding; previous content is hidden.
	PanelLoading PanelState = iota
	// PanelContent - the last fetch produced data.
	PanelContent
	// PanelEmpty - nothing to show yet.
	PanelEmpty
)

// String returns the state name.
func (s PanelState) String() string {
	switch s {
	case PanelLoading:
		return "loading"
	case PanelContent:
		return "content"
	case PanelEmpty:
		return "empty"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// MarshalText encodes the state by name.
func (s PanelState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Placeholder is the empty-state copy of a panel.
type Placeholder struct {
	Title string `json:"title"`
	Hint  string `json:"hint,omitempty"`
}
