package utils

// Fixed server-side strings. Everything the moderator edits is translated
// through the upstream translations table; only the console's own few
// messages live here.

var translations = map[string]map[string]string{
	"de": {
		"health.ok":        "ok",
		"status.saved":     "Gespeichert",
		"status.loggedout": "Abgemeldet",
	},
	"fr": {
		"health.ok":        "ok",
		"status.saved":     "Enregistré",
		"status.loggedout": "Déconnecté",
	},
	"en": {
		"health.ok":        "ok",
		"status.saved":     "Saved",
		"status.loggedout": "Logged out",
	},
}

// T returns the translated string for key in locale, falling back to German
// and then to the key itself.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := translations["de"][key]; ok {
		return v
	}
	return key
}
