package util

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// StringToUint64 converts string to uint64
func StringToUint64(str string) (uint64, error) {
	ui64, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0, err
	}
	return ui64, nil
}

// DecodeHash decodes a hex-encoded hash, with or without the 0x prefix.
func DecodeHash(hexStr string) ([]byte, error) {
	if !strings.HasPrefix(hexStr, "0x") {
		hexStr = "0x" + hexStr
	}
	return hexutil.Decode(hexStr)
}

// EncodeHash hex-encodes raw hash bytes without a 0x prefix.
func EncodeHash(bz []byte) string {
	return strings.TrimPrefix(hexutil.Encode(bz), "0x")
}
