package util

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// LoadChecksums reads the chain's checksums.json artifact and builds the
// lookup table handed to the tx decoder. The file maps wasm source names to
// versioned artifact names, e.g.
//
//	{"tx_bond.wasm": "tx_bond.<hash>.wasm"}
//
// and the returned table maps the embedded hash to the bare source name,
// e.g. "<hash>" -> "tx_bond".
func LoadChecksums(path string) (map[string]string, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]string
	if err := json.Unmarshal(bz, &raw); err != nil {
		return nil, err
	}

	checksums := make(map[string]string, len(raw))
	for name, artifact := range raw {
		parts := strings.Split(artifact, ".")
		if len(parts) != 3 {
			return nil, fmt.Errorf("malformed checksum entry %q: %q", name, artifact)
		}
		sourceName := strings.Split(name, ".")[0]
		checksums[strings.ToLower(parts[1])] = sourceName
	}
	return checksums, nil
}
