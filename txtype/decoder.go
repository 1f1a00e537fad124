package txtype

import (
	"encoding/hex"
	"fmt"

	"github.com/namada-hub/block-hub/db"
)

// Decoder resolves the decoded variant of a persisted transaction. The
// checksums table maps code section hashes (hex) to wasm source names and is
// produced from the chain's checksums.json artifact at startup.
type Decoder interface {
	Decode(tx *db.Transaction, checksums map[string]string) (TxKind, error)
}

type ChecksumDecoder struct{}

func NewChecksumDecoder() Decoder {
	return &ChecksumDecoder{}
}

func (d *ChecksumDecoder) Decode(tx *db.Transaction, checksums map[string]string) (TxKind, error) {
	if len(tx.Code) == 0 {
		return Unknown, fmt.Errorf("transaction %x has no code section", tx.Hash)
	}
	name, ok := checksums[hex.EncodeToString(tx.Code)]
	if !ok {
		return Unknown, fmt.Errorf("unknown code checksum %x", tx.Code)
	}
	kind := KindFromName(name)
	if kind == Unknown {
		return Unknown, fmt.Errorf("unmapped tx source %q", name)
	}
	return kind, nil
}
