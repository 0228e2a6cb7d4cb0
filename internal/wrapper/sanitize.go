package wrapper

import "strings"

// invalidFilenameChars covers the characters that are illegal in a
// filename on at least one of Windows or POSIX filesystems.
const invalidFilenameChars = `<>:"/\|?*`

// Sanitize replaces every character in invalidFilenameChars with "_" on
// every host OS, not only the characters the host itself rejects,
// matching the on-disk layout rule in the external interfaces
// section: sanitized group/process names build both the log path and the
// wrapper-script path.
func Sanitize(name string) string {
	if !strings.ContainsAny(name, invalidFilenameChars) {
		return name
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if strings.ContainsRune(invalidFilenameChars, r) {
			b.WriteByte('_')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
