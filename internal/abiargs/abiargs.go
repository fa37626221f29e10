// Package abiargs encodes constructor arguments for verification
// submissions. The encoding itself is delegated to go-ethereum's abi
// package; this package only converts operator-supplied strings into
// the Go values it expects.
package abiargs

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ErrNoConstructor is returned when the ABI has no constructor but
// arguments were supplied.
var ErrNoConstructor = errors.New("ABI has no constructor inputs")

// Encode ABI-encodes constructor arguments against the contract's ABI
// and returns the hex string (no 0x prefix) the explorer expects in
// the constructorArguements field.
func Encode(abiJSON []byte, args []string) (string, error) {
	parsed, err := gethabi.JSON(strings.NewReader(string(abiJSON)))
	if err != nil {
		return "", fmt.Errorf("parsing ABI: %w", err)
	}

	inputs := parsed.Constructor.Inputs
	if len(inputs) == 0 {
		if len(args) == 0 {
			return "", nil
		}
		return "", ErrNoConstructor
	}
	if len(args) != len(inputs) {
		return "", fmt.Errorf("constructor takes %d arguments, got %d", len(inputs), len(args))
	}

	values := make([]any, len(inputs))
	for i, input := range inputs {
		v, err := convert(input.Type, args[i])
		if err != nil {
			return "", fmt.Errorf("argument %d (%s %s): %w", i+1, input.Type.String(), input.Name, err)
		}
		values[i] = v
	}

	packed, err := parsed.Pack("", values...)
	if err != nil {
		return "", fmt.Errorf("encoding arguments: %w", err)
	}
	return hex.EncodeToString(packed), nil
}

// convert parses one string argument into the Go value the abi
// package expects for the given type. Scalar types cover what
// single-file verification realistically needs; composite types are
// rejected with a clear message.
func convert(t gethabi.Type, raw string) (any, error) {
	raw = strings.TrimSpace(raw)

	switch t.T {
	case gethabi.UintTy, gethabi.IntTy:
		n, ok := new(big.Int).SetString(strings.TrimPrefix(raw, "0x"), base(raw))
		if !ok {
			return nil, fmt.Errorf("not a valid integer: %q", raw)
		}
		return sizedInt(t, n)

	case gethabi.BoolTy:
		switch strings.ToLower(raw) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return nil, fmt.Errorf("not a valid bool: %q", raw)

	case gethabi.StringTy:
		return raw, nil

	case gethabi.AddressTy:
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("not a valid address: %q", raw)
		}
		return common.HexToAddress(raw), nil

	case gethabi.BytesTy:
		b, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
		if err != nil {
			return nil, fmt.Errorf("not valid hex bytes: %q", raw)
		}
		return b, nil

	case gethabi.FixedBytesTy:
		if t.Size != 32 {
			return nil, fmt.Errorf("unsupported type %s (only bytes32 fixed arrays)", t.String())
		}
		b, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
		if err != nil || len(b) > 32 {
			return nil, fmt.Errorf("not a valid bytes32 value: %q", raw)
		}
		var out [32]byte
		copy(out[:], b)
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported type %s: pre-encode composite arguments and pass them with --constructor-args", t.String())
	}
}

// sizedInt maps a big.Int onto the Go representation go-ethereum uses
// for each integer width.
func sizedInt(t gethabi.Type, n *big.Int) (any, error) {
	if !fits(t, n) {
		return nil, fmt.Errorf("value out of range for %s", t.String())
	}

	// Widths below 64 bits use native Go integers in go-ethereum's
	// packer; everything else is *big.Int.
	switch {
	case t.Size > 64:
		return n, nil
	case t.T == gethabi.UintTy:
		switch t.Size {
		case 8:
			return uint8(n.Uint64()), nil
		case 16:
			return uint16(n.Uint64()), nil
		case 32:
			return uint32(n.Uint64()), nil
		case 64:
			return n.Uint64(), nil
		}
	case t.T == gethabi.IntTy:
		switch t.Size {
		case 8:
			return int8(n.Int64()), nil
		case 16:
			return int16(n.Int64()), nil
		case 32:
			return int32(n.Int64()), nil
		case 64:
			return n.Int64(), nil
		}
	}
	return n, nil
}

// fits checks n against the type's numeric range: [0, 2^size) for
// uints, [-2^(size-1), 2^(size-1)) for ints.
func fits(t gethabi.Type, n *big.Int) bool {
	one := big.NewInt(1)
	if t.T == gethabi.UintTy {
		if n.Sign() < 0 {
			return false
		}
		max := new(big.Int).Lsh(one, uint(t.Size))
		return n.Cmp(max) < 0
	}
	max := new(big.Int).Lsh(one, uint(t.Size-1))
	min := new(big.Int).Neg(max)
	return n.Cmp(min) >= 0 && n.Cmp(max) < 0
}

func base(raw string) int {
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		return 16
	}
	return 10
}
