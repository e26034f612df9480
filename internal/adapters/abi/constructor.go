package abi

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

var bigIntType = reflect.TypeOf(&big.Int{})

// ConstructorEncoder turns string-typed constructor arguments into ABI bytes
type ConstructorEncoder struct{}

// NewConstructorEncoder creates an encoder
func NewConstructorEncoder() *ConstructorEncoder {
	return &ConstructorEncoder{}
}

// Encode packs values according to the Solidity type signatures in types.
// An empty argument list yields empty bytes.
func (e *ConstructorEncoder) Encode(types []string, values []string) ([]byte, error) {
	if len(types) != len(values) {
		return nil, fmt.Errorf("got %d constructor types but %d values", len(types), len(values))
	}
	if len(types) == 0 {
		return []byte{}, nil
	}

	args := make(abi.Arguments, len(types))
	packed := make([]interface{}, len(types))
	for i, typ := range types {
		t, err := abi.NewType(strings.TrimSpace(typ), "", nil)
		if err != nil {
			return nil, fmt.Errorf("argument %d: invalid type %q: %w", i, typ, err)
		}
		v, err := convertValue(t, values[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, typ, err)
		}
		args[i] = abi.Argument{Type: t}
		packed[i] = v
	}

	data, err := args.Pack(packed...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}
	return data, nil
}

// convertValue parses s into the Go value go-ethereum expects for t
func convertValue(t abi.Type, s string) (interface{}, error) {
	s = strings.TrimSpace(s)
	switch t.T {
	case abi.AddressTy:
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid address %q", s)
		}
		return common.HexToAddress(s), nil

	case abi.BoolTy:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid bool %q", s)
		}
		return b, nil

	case abi.StringTy:
		return s, nil

	case abi.BytesTy:
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("invalid bytes %q: %w", s, err)
		}
		return b, nil

	case abi.FixedBytesTy:
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("invalid bytes%d %q: %w", t.Size, s, err)
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("bytes%d needs %d bytes, got %d", t.Size, t.Size, len(b))
		}
		v := reflect.New(t.GetType()).Elem()
		reflect.Copy(v, reflect.ValueOf(b))
		return v.Interface(), nil

	case abi.IntTy, abi.UintTy:
		return convertInteger(t, s)

	case abi.SliceTy, abi.ArrayTy:
		return convertList(t, s)

	default:
		return nil, fmt.Errorf("unsupported constructor type %s", t.String())
	}
}

func convertInteger(t abi.Type, s string) (interface{}, error) {
	n, ok := new(big.Int).SetString(strings.ReplaceAll(s, "_", ""), 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}

	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, fmt.Errorf("%s out of range for uint%d", s, t.Size)
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		lowest := new(big.Int).Neg(limit)
		if n.Cmp(limit) >= 0 || n.Cmp(lowest) < 0 {
			return nil, fmt.Errorf("%s out of range for int%d", s, t.Size)
		}
	}

	goType := t.GetType()
	if goType == bigIntType {
		return n, nil
	}
	if t.T == abi.UintTy {
		return reflect.ValueOf(n.Uint64()).Convert(goType).Interface(), nil
	}
	return reflect.ValueOf(n.Int64()).Convert(goType).Interface(), nil
}

// convertList accepts a JSON array, e.g. ["0xabc…", "0xdef…"] or [1, 2, 3]
func convertList(t abi.Type, s string) (interface{}, error) {
	var raw []interface{}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("expected a JSON array for %s: %w", t.String(), err)
	}
	if t.T == abi.ArrayTy && len(raw) != t.Size {
		return nil, fmt.Errorf("%s needs %d elements, got %d", t.String(), t.Size, len(raw))
	}

	items := lo.Map(raw, func(item interface{}, _ int) string {
		switch v := item.(type) {
		case string:
			return v
		case json.Number:
			return v.String()
		case bool:
			return strconv.FormatBool(v)
		default:
			b, _ := json.Marshal(v)
			return string(b)
		}
	})

	var out reflect.Value
	if t.T == abi.ArrayTy {
		out = reflect.New(t.GetType()).Elem()
	} else {
		out = reflect.MakeSlice(t.GetType(), len(items), len(items))
	}
	for i, item := range items {
		v, err := convertValue(*t.Elem, item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(reflect.ValueOf(v))
	}
	return out.Interface(), nil
}

var _ usecase.ConstructorEncoder = (*ConstructorEncoder)(nil)
