package document

import (
	"crypto/md5"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ValidateUploadSize validates an incoming content size against the limit
func ValidateUploadSize(size, maxSizeMB int64) error {
	if size == 0 {
		return fmt.Errorf("file is empty")
	}

	if size > maxSizeMB*1024*1024 {
		return fmt.Errorf("file size exceeds %dMB limit", maxSizeMB)
	}

	return nil
}

// CalculateChecksum calculates the MD5 digest of a content stream and the
// number of bytes read
func CalculateChecksum(r io.Reader) (string, int64, error) {
	hash := md5.New()
	size, err := io.Copy(hash, r)
	if err != nil {
		return "", 0, err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), size, nil
}

// SplitName splits a filename into its base name and extension without the
// leading dot
func SplitName(filename string) (string, string) {
	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	return name, strings.TrimPrefix(ext, ".")
}
