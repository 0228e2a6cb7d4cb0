package wrapper

import "strings"

// posixQuote wraps s in single quotes for POSIX shell, escaping any
// embedded single quote as '"'"' (close quote, literal quote, reopen
// quote) per the wrapper-script quoting rule.
func posixQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// windowsQuote wraps s in a double-quoted literal for cmd.exe, doubling
// any embedded double quote.
func windowsQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
