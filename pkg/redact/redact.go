// redact маскирует персональные данные перед записью в лог.
package redact

import "strings"

// Email оставляет первые два символа локальной части и домен: "al***@example.org".
func Email(s string) string {
	local, domain, ok := strings.Cut(s, "@")
	if !ok || domain == "" || strings.Contains(domain, "@") {
		return "***"
	}

	if len(local) > 2 {
		return local[:2] + "***@" + domain
	}

	return "***@" + domain
}

// Password - заглушка для любых секретов пользователя.
func Password() string { return "[REDACTED_PASSWORD]" }
