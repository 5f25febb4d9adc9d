package abi

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

var (
	// ErrMissingArgument is returned when a declared input has no value
	ErrMissingArgument = errors.New("missing argument")
	// ErrUnsupportedType is returned for Cairo types the encoder can't serialize
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrInvalidValue is returned when a Go value doesn't fit the Cairo type
	ErrInvalidValue = errors.New("invalid value")
)

const (
	typeFelt         = "core::felt252"
	typeBool         = "core::bool"
	typeU256         = "core::integer::u256"
	typeByteArray    = "core::byte_array::ByteArray"
	typeArrayPrefix  = "core::array::Array::<"
	typeSpanPrefix   = "core::array::Span::<"
	typeOptionPrefix = "core::option::Option::<"
	typeUnit         = "()"

	byteArrayWordLen = 31
)

// starkPrime is 2^251 + 17*2^192 + 1
var starkPrime = func() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 251)
	p.Add(p, new(big.Int).Lsh(big.NewInt(17), 192))
	return p.Add(p, big.NewInt(1))
}()

// Bit widths of the felt-sized scalar types
var scalarBits = map[string]uint{
	"felt252": 0,
	"felt":    0,
	typeFelt:  0,
	"core::starknet::contract_address::ContractAddress": 0,
	"core::starknet::class_hash::ClassHash":             0,
	"core::starknet::storage_access::StorageAddress":    0,
	"core::starknet::eth_address::EthAddress":           160,
	"core::integer::u8":                                 8,
	"core::integer::u16":                                16,
	"core::integer::u32":                                32,
	"core::integer::usize":                              32,
	"core::integer::u64":                                64,
	"core::integer::u128":                               128,
}

var signedBits = map[string]uint{
	"core::integer::i8":   8,
	"core::integer::i16":  16,
	"core::integer::i32":  32,
	"core::integer::i64":  64,
	"core::integer::i128": 128,
}

// Encoder serializes Go values into Cairo calldata following the ABI
type Encoder struct{}

// NewEncoder creates a new calldata encoder
func NewEncoder() *Encoder {
	return &Encoder{}
}

// EncodeConstructor serializes args in the order of the constructor inputs.
// Keys the constructor doesn't declare are ignored.
func (e *Encoder) EncodeConstructor(abi domain.ABI, args map[string]any) ([]*felt.Felt, error) {
	ctor, err := abi.Constructor()
	if err != nil {
		return nil, err
	}

	calldata := make([]*felt.Felt, 0, len(ctor.Inputs))
	for _, input := range ctor.Inputs {
		value, ok := args[input.Name]
		if !ok {
			return nil, fmt.Errorf("constructor input %s: %w", input.Name, ErrMissingArgument)
		}
		encoded, err := e.encodeValue(abi, input.Type, value)
		if err != nil {
			return nil, fmt.Errorf("constructor input %s (%s): %w", input.Name, input.Type, err)
		}
		calldata = append(calldata, encoded...)
	}
	return calldata, nil
}

func (e *Encoder) encodeValue(abi domain.ABI, typ string, value any) ([]*felt.Felt, error) {
	typ = strings.ReplaceAll(typ, " ", "")

	if bits, ok := scalarBits[typ]; ok {
		f, err := toFelt(value, bits)
		if err != nil {
			return nil, err
		}
		return []*felt.Felt{f}, nil
	}
	if bits, ok := signedBits[typ]; ok {
		f, err := toSignedFelt(value, bits)
		if err != nil {
			return nil, err
		}
		return []*felt.Felt{f}, nil
	}

	switch {
	case typ == typeUnit:
		return nil, nil
	case typ == typeU256:
		return encodeU256(value)
	case typ == typeBool:
		return encodeBool(value)
	case typ == typeByteArray:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: ByteArray expects a string, got %T", ErrInvalidValue, value)
		}
		return encodeByteArray(s), nil
	case strings.HasPrefix(typ, typeArrayPrefix):
		return e.encodeArray(abi, genericArg(typ, typeArrayPrefix), value)
	case strings.HasPrefix(typ, typeSpanPrefix):
		return e.encodeArray(abi, genericArg(typ, typeSpanPrefix), value)
	}

	if def, ok := abi.Struct(typ); ok {
		return e.encodeStruct(abi, def, value)
	}
	if def, ok := abi.Enum(typ); ok {
		return e.encodeEnum(abi, def, value)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
}

func (e *Encoder) encodeArray(abi domain.ABI, elemType string, value any) ([]*felt.Felt, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: array expects a slice, got %T", ErrInvalidValue, value)
	}

	out := []*felt.Felt{new(felt.Felt).SetUint64(uint64(rv.Len()))}
	for i := 0; i < rv.Len(); i++ {
		encoded, err := e.encodeValue(abi, elemType, rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, encoded...)
	}
	return out, nil
}

func (e *Encoder) encodeStruct(abi domain.ABI, def *domain.ABIEntry, value any) ([]*felt.Felt, error) {
	fields, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: struct %s expects map[string]any, got %T", ErrInvalidValue, def.Name, value)
	}

	var out []*felt.Felt
	for _, member := range def.Members {
		v, ok := fields[member.Name]
		if !ok {
			return nil, fmt.Errorf("member %s.%s: %w", def.Name, member.Name, ErrMissingArgument)
		}
		encoded, err := e.encodeValue(abi, member.Type, v)
		if err != nil {
			return nil, fmt.Errorf("member %s.%s: %w", def.Name, member.Name, err)
		}
		out = append(out, encoded...)
	}
	return out, nil
}

func (e *Encoder) encodeEnum(abi domain.ABI, def *domain.ABIEntry, value any) ([]*felt.Felt, error) {
	var selected domain.EnumValue
	switch v := value.(type) {
	case domain.EnumValue:
		selected = v
	case string:
		selected = domain.EnumValue{Variant: v}
	case nil:
		// Option::None
		if !strings.HasPrefix(def.Name, typeOptionPrefix) {
			return nil, fmt.Errorf("%w: enum %s requires a variant", ErrInvalidValue, def.Name)
		}
		selected = domain.EnumValue{Variant: "None"}
	default:
		return nil, fmt.Errorf("%w: enum %s expects EnumValue, got %T", ErrInvalidValue, def.Name, value)
	}

	for i, variant := range def.Variants {
		if variant.Name != selected.Variant {
			continue
		}
		out := []*felt.Felt{new(felt.Felt).SetUint64(uint64(i))}
		payload, err := e.encodeValue(abi, variant.Type, selected.Value)
		if err != nil {
			return nil, fmt.Errorf("variant %s::%s: %w", def.Name, variant.Name, err)
		}
		return append(out, payload...), nil
	}
	return nil, fmt.Errorf("%w: enum %s has no variant %q", ErrInvalidValue, def.Name, selected.Variant)
}

func encodeU256(value any) ([]*felt.Felt, error) {
	var low, high *big.Int
	var err error

	switch v := value.(type) {
	case domain.U256:
		if low, err = toBigInt(v.Low); err != nil {
			return nil, err
		}
		if high, err = toBigInt(v.High); err != nil {
			return nil, err
		}
	case map[string]any:
		if low, err = toBigInt(v["low"]); err != nil {
			return nil, err
		}
		if high, err = toBigInt(v["high"]); err != nil {
			return nil, err
		}
	default:
		n, err := toBigInt(value)
		if err != nil {
			return nil, err
		}
		if n.Sign() < 0 || n.BitLen() > 256 {
			return nil, fmt.Errorf("%w: %s does not fit in u256", ErrInvalidValue, n)
		}
		mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
		low = new(big.Int).And(n, mask)
		high = new(big.Int).Rsh(n, 128)
	}

	for _, limb := range []*big.Int{low, high} {
		if limb.Sign() < 0 || limb.BitLen() > 128 {
			return nil, fmt.Errorf("%w: u256 limb %s does not fit in u128", ErrInvalidValue, limb)
		}
	}
	return []*felt.Felt{new(felt.Felt).SetBigInt(low), new(felt.Felt).SetBigInt(high)}, nil
}

func encodeBool(value any) ([]*felt.Felt, error) {
	var b bool
	switch v := value.(type) {
	case bool:
		b = v
	case string:
		switch strings.ToLower(v) {
		case "true", "1":
			b = true
		case "false", "0", "":
			b = false
		default:
			return nil, fmt.Errorf("%w: %q is not a bool", ErrInvalidValue, v)
		}
	default:
		return nil, fmt.Errorf("%w: bool expects bool, got %T", ErrInvalidValue, value)
	}
	if b {
		return []*felt.Felt{new(felt.Felt).SetUint64(1)}, nil
	}
	return []*felt.Felt{new(felt.Felt).SetUint64(0)}, nil
}

// encodeByteArray lays out [full_words_len, full_words..., pending_word, pending_word_len]
func encodeByteArray(s string) []*felt.Felt {
	data := []byte(s)
	full := len(data) / byteArrayWordLen

	out := []*felt.Felt{new(felt.Felt).SetUint64(uint64(full))}
	for i := 0; i < full; i++ {
		word := data[i*byteArrayWordLen : (i+1)*byteArrayWordLen]
		out = append(out, new(felt.Felt).SetBigInt(new(big.Int).SetBytes(word)))
	}

	pending := data[full*byteArrayWordLen:]
	out = append(out,
		new(felt.Felt).SetBigInt(new(big.Int).SetBytes(pending)),
		new(felt.Felt).SetUint64(uint64(len(pending))),
	)
	return out
}

// toFelt converts value to a felt; bits > 0 bounds the value to an unsigned width
func toFelt(value any, bits uint) (*felt.Felt, error) {
	n, err := toBigInt(value)
	if err != nil {
		return nil, err
	}
	if n.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative value %s", ErrInvalidValue, n)
	}
	if bits > 0 && n.BitLen() > int(bits) {
		return nil, fmt.Errorf("%w: %s exceeds %d bits", ErrInvalidValue, n, bits)
	}
	if n.Cmp(starkPrime) >= 0 {
		return nil, fmt.Errorf("%w: %s is not below the field prime", ErrInvalidValue, n)
	}
	return new(felt.Felt).SetBigInt(n), nil
}

// toSignedFelt maps negative values to P - |v|
func toSignedFelt(value any, bits uint) (*felt.Felt, error) {
	n, err := toBigInt(value)
	if err != nil {
		return nil, err
	}
	limit := new(big.Int).Lsh(big.NewInt(1), bits-1)
	if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
		return nil, fmt.Errorf("%w: %s out of i%d range", ErrInvalidValue, n, bits)
	}
	if n.Sign() < 0 {
		n = new(big.Int).Add(starkPrime, n)
	}
	return new(felt.Felt).SetBigInt(n), nil
}

// toBigInt accepts decimal/hex strings, Cairo short strings, Go integers,
// big.Int and felt values. The empty string is zero.
func toBigInt(value any) (*big.Int, error) {
	switch v := value.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrInvalidValue)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return new(big.Int), nil
		}
		if hex, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
			n, ok := new(big.Int).SetString(hex, 16)
			if !ok {
				return nil, fmt.Errorf("%w: %q is not valid hex", ErrInvalidValue, s)
			}
			return n, nil
		}
		if n, ok := new(big.Int).SetString(s, 10); ok {
			return n, nil
		}
		return shortString(s)
	case *big.Int:
		if v == nil {
			return nil, fmt.Errorf("%w: nil *big.Int", ErrInvalidValue)
		}
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case *felt.Felt:
		if v == nil {
			return nil, fmt.Errorf("%w: nil felt", ErrInvalidValue)
		}
		return v.BigInt(new(big.Int)), nil
	case int:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, fmt.Errorf("%w: can't convert %T to a number", ErrInvalidValue, value)
	}
}

// shortString encodes an ASCII string of at most 31 chars as a felt
func shortString(s string) (*big.Int, error) {
	if len(s) > byteArrayWordLen {
		return nil, fmt.Errorf("%w: %q is not a number and too long for a short string", ErrInvalidValue, s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return nil, fmt.Errorf("%w: %q is not a number or ASCII short string", ErrInvalidValue, s)
		}
	}
	return new(big.Int).SetBytes([]byte(s)), nil
}

// genericArg extracts T from prefix<T>
func genericArg(typ, prefix string) string {
	return strings.TrimSuffix(strings.TrimPrefix(typ, prefix), ">")
}

var _ usecase.CalldataEncoder = (*Encoder)(nil)
