package gmail

import "strings"

// SanitizeFilename replaces path separators and parent references so the
// result stays inside the directory it is written to.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.ReplaceAll(filename, "..", "_")
	return filename
}
