package catalog

import (
	"strings"

	"buildlab/internal/domain"
)

var windowsEditions = []string{"Home", "Pro", "Enterprise", "Education"}

var linuxDistros = []string{"Ubuntu", "Fedora", "Debian", "Arch Linux", "Linux Mint"}

// WindowsEditions returns the selectable Windows editions
func WindowsEditions() []string { return append([]string(nil), windowsEditions...) }

// LinuxDistros returns the selectable Linux distributions
func LinuxDistros() []string { return append([]string(nil), linuxDistros...) }

// KnownOSEdition reports whether edition is listed for kind (case-insensitive)
func KnownOSEdition(kind domain.OSKind, edition string) bool {
	var list []string
	switch kind {
	case domain.OSWindows:
		list = windowsEditions
	case domain.OSLinux:
		list = linuxDistros
	default:
		return false
	}
	for _, e := range list {
		if strings.EqualFold(e, strings.TrimSpace(edition)) {
			return true
		}
	}
	return false
}

// DefaultEdition returns the first listed edition for kind
func DefaultEdition(kind domain.OSKind) string {
	if kind == domain.OSWindows {
		return windowsEditions[0]
	}
	return linuxDistros[0]
}
