package benchmark

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// readDataset reads and structurally decodes a dataset file into v.
// JSON is the primary format; files with a .yaml or .yml extension are
// decoded as YAML. The returned fingerprint is the BLAKE3 hash of the raw
// bytes, recorded in result metadata for provenance.
func readDataset(path string, v any) (fingerprint string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrDatasetNotFound, path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return "", fmt.Errorf("%w: parsing %s: %v", ErrDatasetMalformed, path, err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return "", fmt.Errorf("%w: parsing %s: %v", ErrDatasetMalformed, path, err)
		}
	}

	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
