package pixel

import (
	"fmt"
	"os"
)

// ContentType is the content type served for every successful pixel fetch.
const ContentType = "image/gif"

// Asset is the 1x1 transparent GIF served for every pixel fetch. The
// bytes are fixed so repeat fetches always see an identical body.
var Asset = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, // GIF89a
	0x01, 0x00, 0x01, 0x00, 0x80, 0x01, 0x00,
	0x00, 0x00, 0x00, 0xff, 0xff, 0xff,
	0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00,
	0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00,
	0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

// EnsureOnDisk writes the asset to path once if missing. Idempotent.
func EnsureOnDisk(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat pixel asset: %w", err)
	}

	if err := os.WriteFile(path, Asset, 0o644); err != nil {
		return fmt.Errorf("write pixel asset: %w", err)
	}
	return nil
}
