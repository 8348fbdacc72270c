package detector

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// ReadResultFile decodes a change-point result produced by another tool.
// JSON (.json) and MessagePack (.msgpack, .mp) files are supported; the
// decoded value still has to pass Normalize.
func ReadResultFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}

	var raw any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &raw)
	case ".msgpack", ".mp":
		err = msgpack.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("%w: result file extension %q", ErrUnexpectedResultFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding result file %s: %w", path, err)
	}
	return raw, nil
}
