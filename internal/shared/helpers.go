// Package shared provides common utility functions used across multiple
// packages in the nus codebase.
package shared

import (
	"fmt"
	"net/url"
	"strings"
)

// RegistryPath escapes a package name for use as a registry URL path
// segment. Scoped names keep their "@" and encode the slash
// ("@types/node" -> "@types%2Fnode").
func RegistryPath(name string) string {
	return url.PathEscape(strings.TrimSpace(name))
}

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}

// HTTPStatusErrorWithBody creates a formatted error that includes the
// response body for non-2xx HTTP responses.
func HTTPStatusErrorWithBody(status int, url string, body string) error {
	return fmt.Errorf("status=%d url=%s response=%s", status, url, body)
}

// CommandError wraps a command execution error with its trimmed output
// for cleaner error messages.
func CommandError(output []byte, err error) error {
	return fmt.Errorf("%s: %w", strings.TrimSpace(string(output)), err)
}
