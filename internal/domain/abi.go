package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
)

// ABI entry kinds emitted by the Cairo 1 compiler
const (
	ABIEntryConstructor = "constructor"
	ABIEntryStruct      = "struct"
	ABIEntryEnum        = "enum"
)

// ABIParam is a named, typed slot: a function input, a struct member or an enum variant
type ABIParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Kind string `json:"kind,omitempty"`
}

// ABIEntry is one top-level (or interface-nested) item of a Cairo ABI
type ABIEntry struct {
	Type            string     `json:"type"`
	Name            string     `json:"name"`
	Inputs          []ABIParam `json:"inputs,omitempty"`
	Outputs         []ABIParam `json:"outputs,omitempty"`
	Members         []ABIParam `json:"members,omitempty"`
	Variants        []ABIParam `json:"variants,omitempty"`
	Items           []ABIEntry `json:"items,omitempty"`
	InterfaceName   string     `json:"interface_name,omitempty"`
	StateMutability string     `json:"state_mutability,omitempty"`
	Kind            string     `json:"kind,omitempty"`
}

// ABI is the interface description carried in a Sierra contract class
type ABI []ABIEntry

// Constructor returns the constructor entry
func (a ABI) Constructor() (*ABIEntry, error) {
	entry, ok := lo.Find(a, func(e ABIEntry) bool { return e.Type == ABIEntryConstructor })
	if !ok {
		return nil, ErrConstructorNotFound
	}
	return &entry, nil
}

// Struct looks up a struct definition by its fully qualified name
func (a ABI) Struct(name string) (*ABIEntry, bool) {
	entry, ok := lo.Find(a, func(e ABIEntry) bool { return e.Type == ABIEntryStruct && e.Name == name })
	if !ok {
		return nil, false
	}
	return &entry, true
}

// Enum looks up an enum definition by its fully qualified name
func (a ABI) Enum(name string) (*ABIEntry, bool) {
	entry, ok := lo.Find(a, func(e ABIEntry) bool { return e.Type == ABIEntryEnum && e.Name == name })
	if !ok {
		return nil, false
	}
	return &entry, true
}

// ParseABI decodes a Cairo ABI. Scarb writes the ABI as a JSON array while
// RPC nodes return it as a JSON-encoded string; both are accepted.
func ParseABI(raw []byte) (ABI, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: empty", ErrInvalidABI)
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidABI, err)
		}
		return ParseABI([]byte(inner))
	}

	var abi ABI
	if err := json.Unmarshal(raw, &abi); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidABI, err)
	}
	return abi, nil
}

// ParseSierraABI extracts and decodes the "abi" field of a Sierra contract class
func ParseSierraABI(sierra []byte) (ABI, error) {
	var class struct {
		ABI json.RawMessage `json:"abi"`
	}
	if err := json.Unmarshal(sierra, &class); err != nil {
		return nil, fmt.Errorf("failed to parse sierra contract class: %w", err)
	}
	return ParseABI(class.ABI)
}
