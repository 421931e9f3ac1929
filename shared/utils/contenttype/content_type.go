package contenttype

import (
	"mime"
	"path/filepath"
	"strings"
)

// DefaultContentType is returned when no mapping is known for an extension.
const DefaultContentType = "application/octet-stream"

type override struct {
	ext      string
	mimeType string
}

// overrides covers types the platform MIME table misses or mismaps.
// Extensions carry no leading dot and are lower case. Order matters: the
// reverse lookup scans this list front to back, so where several extensions
// share a MIME type the earliest entry is the one DetermineExtension returns.
var overrides = []override{
	{"py", "text/x-python"},
	{"go", "text/x-go"},
	{"rs", "text/x-rust"},
	{"sh", "text/x-shellscript"},
	{"csv", "text/csv"},
	{"tsv", "text/tab-separated-values"},
	{"md", "text/markdown"},
	{"log", "text/plain"},
	{"yml", "text/yaml"},
	{"yaml", "text/yaml"},
	{"toml", "text/x-toml"},
	{"ini", "text/plain"},
	{"eml", "message/rfc822"},
	{"json", "application/json"},
	{"xcf", "image/x-xcf"},
	{"heic", "image/heic"},
	{"webp", "image/webp"},
	{"flac", "audio/flac"},
	{"m4a", "audio/mp4"},
	{"ogg", "audio/ogg"},
	{"opus", "audio/opus"},
	{"mkv", "video/x-matroska"},
	{"markdown", "text/markdown"},
}

// overrideTypes indexes the override list by extension for forward lookups
var overrideTypes = func() map[string]string {
	m := make(map[string]string, len(overrides))
	for _, o := range overrides {
		m[o.ext] = o.mimeType
	}
	return m
}()

// DetermineContentType maps a filename to a MIME type. The curated override
// table wins over the platform table; unknown extensions and names without an
// extension map to application/octet-stream. Empty or whitespace input
// yields an empty string.
func DetermineContentType(filename string) string {
	if strings.TrimSpace(filename) == "" {
		return ""
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return DefaultContentType
	}

	if mimeType, ok := overrideTypes[ext]; ok {
		return mimeType
	}

	if mimeType := mime.TypeByExtension("." + ext); mimeType != "" {
		// Strip charset parameters the platform table appends
		if idx := strings.Index(mimeType, ";"); idx >= 0 {
			mimeType = strings.TrimSpace(mimeType[:idx])
		}
		return mimeType
	}

	return DefaultContentType
}

// DetermineExtension maps a MIME type back to a file extension without the
// leading dot. The override table is searched first by value,
// case-insensitively and in declaration order, then the platform table.
// Unknown types yield an empty string.
func DetermineExtension(mimeType string) string {
	if strings.TrimSpace(mimeType) == "" {
		return ""
	}

	needle := strings.ToLower(strings.TrimSpace(mimeType))

	for _, o := range overrides {
		if strings.EqualFold(o.mimeType, needle) {
			return o.ext
		}
	}

	if exts, err := mime.ExtensionsByType(needle); err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}

	return ""
}
