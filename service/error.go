package service

import (
	"fmt"
)

// Verify Interface Compliance
var _ error = (*Err)(nil)

// Err defines service errors.
type Err struct {
	Code    int64  `json:"code"`
	Message string `json:"error"`
}

func (e Err) Enrich(message string) Err {
	return Err{
		Code:    e.Code,
		Message: fmt.Sprintf("%s: %s", e.Message, message),
	}
}

func (e Err) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

var (
	NoErr = Err{Code: 0, Message: ""}

	// ErrInvalidRequest covers malformed client input, rejected before any
	// store access.
	ErrInvalidRequest = Err{Code: 400, Message: "invalid request"}

	// ErrBlockNotFound means the requested block is absent from the store.
	ErrBlockNotFound = Err{Code: 404, Message: "block not found"}

	// ErrStoreFailure is any I/O failure against the block store.
	ErrStoreFailure = Err{Code: 500, Message: "storage failure"}

	// ErrOracleFailure means the epoch query against the node failed.
	ErrOracleFailure = Err{Code: 502, Message: "node query failure"}
)
