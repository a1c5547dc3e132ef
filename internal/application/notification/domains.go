package notification

import (
	"regexp"
	"strings"
)

// publicDomains proveedores que aceptan correo del remitente sandbox.
var publicDomains = map[string]struct{}{
	"gmail.com":      {},
	"googlemail.com": {},
	"outlook.com":    {},
	"hotmail.com":    {},
	"live.com":       {},
	"yahoo.com":      {},
	"icloud.com":     {},
	"protonmail.com": {},
	"mail.com":       {},
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsPublicDomain informa si el dominio del correo está en la lista de proveedores públicos.
func IsPublicDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	_, ok := publicDomains[strings.ToLower(strings.TrimSpace(email[at+1:]))]
	return ok
}

// ValidEmail validación de forma (no de existencia).
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}
