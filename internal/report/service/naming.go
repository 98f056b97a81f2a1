package service

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// fallbackName is used when sanitizing leaves nothing, for example a
// location whose name is entirely symbols.
const fallbackName = "sin_nombre"

// SanitizeName turns a display name into a filesystem-safe token:
// diacritics folded, lowercased, runs of anything outside [a-z0-9]
// collapsed to single underscores.
func SanitizeName(name string) string {
	cleaned := strings.ReplaceAll(slug.Make(name), "-", "_")
	if cleaned == "" {
		return fallbackName
	}
	return cleaned
}

// ArchiveName is the deliverable ZIP's filename for one company run.
func ArchiveName(companyName, contract string) string {
	return fmt.Sprintf("Informes_%s_%s.zip", SanitizeName(companyName), SanitizeName(contract))
}

// InvoiceEntryName is one invoice's filename inside the archive. seq
// disambiguates repeated location names; the first occurrence carries no
// suffix.
func InvoiceEntryName(locationName string, seq int) string {
	base := SanitizeName(locationName)
	if seq > 1 {
		return fmt.Sprintf("Informe_%s_%d.pdf", base, seq)
	}
	return fmt.Sprintf("Informe_%s.pdf", base)
}
