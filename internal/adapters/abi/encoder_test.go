package abi

import (
	"math/big"
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
)

const cltBaseABI = `[
  {"type": "struct", "name": "core::integer::u256", "members": [
    {"name": "low", "type": "core::integer::u128"},
    {"name": "high", "type": "core::integer::u128"}
  ]},
  {"type": "constructor", "name": "constructor", "inputs": [
    {"name": "owner", "type": "core::starknet::contract_address::ContractAddress"},
    {"name": "governance_fee_handler_address", "type": "core::starknet::contract_address::ContractAddress"},
    {"name": "lp_automation_fee", "type": "core::integer::u256"},
    {"name": "strategy_creation_fee", "type": "core::integer::u256"},
    {"name": "protocol_fee_on_management", "type": "core::integer::u256"},
    {"name": "protocol_fee_on_performance", "type": "core::integer::u256"}
  ]}
]`

// decimals renders calldata as decimal strings for readable assertions
func decimals(felts []*felt.Felt) []string {
	out := make([]string, len(felts))
	for i, f := range felts {
		out[i] = f.BigInt(new(big.Int)).String()
	}
	return out
}

func mustABI(t *testing.T, raw string) domain.ABI {
	t.Helper()
	abi, err := domain.ParseABI([]byte(raw))
	require.NoError(t, err)
	return abi
}

func ctorABI(inputType string) string {
	return `[
  {"type": "struct", "name": "core::integer::u256", "members": [
    {"name": "low", "type": "core::integer::u128"},
    {"name": "high", "type": "core::integer::u128"}
  ]},
  {"type": "struct", "name": "clt::FeeParams", "members": [
    {"name": "fee", "type": "core::integer::u256"},
    {"name": "enabled", "type": "core::bool"}
  ]},
  {"type": "enum", "name": "core::bool", "variants": [
    {"name": "False", "type": "()"},
    {"name": "True", "type": "()"}
  ]},
  {"type": "enum", "name": "core::option::Option::<core::felt252>", "variants": [
    {"name": "Some", "type": "core::felt252"},
    {"name": "None", "type": "()"}
  ]},
  {"type": "enum", "name": "clt::Mode", "variants": [
    {"name": "Passive", "type": "()"},
    {"name": "Active", "type": "core::integer::u32"}
  ]},
  {"type": "constructor", "name": "constructor", "inputs": [
    {"name": "x", "type": "` + inputType + `"}
  ]}
]`
}

func TestEncodeConstructor_CLTBase(t *testing.T) {
	enc := NewEncoder()
	abi := mustABI(t, cltBaseABI)

	args := domain.NewConstructorArgs("0x1234")
	calldata, err := enc.EncodeConstructor(abi, args.Named())
	require.NoError(t, err)

	handler, ok := new(big.Int).SetString(domain.GovernanceFeeHandlerAddress[2:], 16)
	require.True(t, ok)

	assert.Equal(t, []string{
		"4660",
		handler.String(),
		"0", "0",
		"0", "0",
		"0", "0",
		"0", "0",
	}, decimals(calldata))
}

func TestEncodeConstructor_EmptyOwnerIsZero(t *testing.T) {
	enc := NewEncoder()
	abi := mustABI(t, cltBaseABI)

	calldata, err := enc.EncodeConstructor(abi, domain.NewConstructorArgs("").Named())
	require.NoError(t, err)
	require.Len(t, calldata, 10)
	assert.Equal(t, "0", decimals(calldata)[0])
}

func TestEncodeConstructor_IgnoresUndeclaredArgs(t *testing.T) {
	enc := NewEncoder()
	abi := mustABI(t, `[
  {"type": "constructor", "name": "constructor", "inputs": [
    {"name": "owner", "type": "core::starknet::contract_address::ContractAddress"},
    {"name": "governance_fee_handler_address", "type": "core::starknet::contract_address::ContractAddress"}
  ]}
]`)

	calldata, err := enc.EncodeConstructor(abi, domain.NewConstructorArgs("0x1").Named())
	require.NoError(t, err)
	assert.Len(t, calldata, 2)
}

func TestEncodeConstructor_Errors(t *testing.T) {
	enc := NewEncoder()

	t.Run("missing argument", func(t *testing.T) {
		_, err := enc.EncodeConstructor(mustABI(t, cltBaseABI), map[string]any{"owner": "0x1"})
		assert.ErrorIs(t, err, ErrMissingArgument)
		assert.Contains(t, err.Error(), "governance_fee_handler_address")
	})

	t.Run("no constructor", func(t *testing.T) {
		_, err := enc.EncodeConstructor(mustABI(t, `[]`), nil)
		assert.ErrorIs(t, err, domain.ErrConstructorNotFound)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := enc.EncodeConstructor(mustABI(t, ctorABI("clt::Unknown")), map[string]any{"x": "1"})
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("felt above prime", func(t *testing.T) {
		tooBig := new(big.Int).Lsh(big.NewInt(1), 252)
		_, err := enc.EncodeConstructor(mustABI(t, ctorABI("core::felt252")), map[string]any{"x": tooBig})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("u8 overflow", func(t *testing.T) {
		_, err := enc.EncodeConstructor(mustABI(t, ctorABI("core::integer::u8")), map[string]any{"x": 256})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("u256 limb overflow", func(t *testing.T) {
		limb := new(big.Int).Lsh(big.NewInt(1), 128).String()
		_, err := enc.EncodeConstructor(mustABI(t, ctorABI("core::integer::u256")), map[string]any{
			"x": domain.U256{Low: limb, High: "0"},
		})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("bad hex", func(t *testing.T) {
		_, err := enc.EncodeConstructor(mustABI(t, ctorABI("core::felt252")), map[string]any{"x": "0xzz"})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestEncodeValues(t *testing.T) {
	enc := NewEncoder()
	twoTo128 := new(big.Int).Lsh(big.NewInt(1), 128)

	tests := []struct {
		name     string
		typ      string
		value    any
		expected []string
	}{
		{name: "felt decimal", typ: "core::felt252", value: "42", expected: []string{"42"}},
		{name: "felt hex", typ: "core::felt252", value: "0x2a", expected: []string{"42"}},
		{name: "felt short string", typ: "core::felt252", value: "hi", expected: []string{"26729"}},
		{name: "felt int", typ: "core::felt252", value: 7, expected: []string{"7"}},
		{name: "u256 from big number", typ: "core::integer::u256", value: new(big.Int).Add(twoTo128, big.NewInt(5)), expected: []string{"5", "1"}},
		{name: "u256 from map", typ: "core::integer::u256", value: map[string]any{"low": "1", "high": "2"}, expected: []string{"1", "2"}},
		{name: "bool true", typ: "core::bool", value: true, expected: []string{"1"}},
		{name: "bool string", typ: "core::bool", value: "false", expected: []string{"0"}},
		{name: "negative i8", typ: "core::integer::i8", value: -1, expected: []string{new(big.Int).Sub(starkPrime, big.NewInt(1)).String()}},
		{name: "array of u32", typ: "core::array::Array::<core::integer::u32>", value: []any{1, 2, 3}, expected: []string{"3", "1", "2", "3"}},
		{name: "span of u256", typ: "core::array::Span::<core::integer::u256>", value: []domain.U256{{Low: "9", High: "0"}}, expected: []string{"1", "9", "0"}},
		{name: "empty byte array", typ: "core::byte_array::ByteArray", value: "", expected: []string{"0", "0", "0"}},
		{name: "short byte array", typ: "core::byte_array::ByteArray", value: "hi", expected: []string{"0", "26729", "2"}},
		{
			name:     "struct",
			typ:      "clt::FeeParams",
			value:    map[string]any{"fee": domain.U256{Low: "10", High: "0"}, "enabled": true},
			expected: []string{"10", "0", "1"},
		},
		{name: "option some", typ: "core::option::Option::<core::felt252>", value: domain.EnumValue{Variant: "Some", Value: "5"}, expected: []string{"0", "5"}},
		{name: "option none", typ: "core::option::Option::<core::felt252>", value: nil, expected: []string{"1"}},
		{name: "enum unit variant by name", typ: "clt::Mode", value: "Passive", expected: []string{"0"}},
		{name: "enum payload", typ: "clt::Mode", value: domain.EnumValue{Variant: "Active", Value: uint32(3)}, expected: []string{"1", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calldata, err := enc.EncodeConstructor(mustABI(t, ctorABI(tt.typ)), map[string]any{"x": tt.value})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, decimals(calldata))
		})
	}
}

func TestEncodeByteArray_FullWords(t *testing.T) {
	// 31 bytes fill exactly one word and leave an empty pending word
	s := "abcdefghijklmnopqrstuvwxyz01234"
	require.Len(t, s, 31)

	out := decimals(encodeByteArray(s + "5"))
	require.Len(t, out, 4)
	assert.Equal(t, "1", out[0])
	assert.Equal(t, new(big.Int).SetBytes([]byte(s)).String(), out[1])
	assert.Equal(t, "53", out[2])
	assert.Equal(t, "1", out[3])
}
