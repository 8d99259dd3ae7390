package domain

// Language is an ISO-639-1 language code supported by the enrichment pipeline.
type Language string

// Supported languages. LanguageEN is the pivot language: every other
// supported language has a direct translation model to and from English.
const (
	LanguageRU Language = "RU"
	LanguageEN Language = "EN"
	LanguageDE Language = "DE"
	LanguageFR Language = "FR"
	LanguageIT Language = "IT"
	LanguageES Language = "ES"
	LanguagePT Language = "PT"
)

// PivotLanguage is the hub language used for chained translation.
const PivotLanguage = LanguageEN

// Languages returns all supported language codes.
func Languages() []Language {
	return []Language{
		LanguageRU,
		LanguageEN,
		LanguageDE,
		LanguageFR,
		LanguageIT,
		LanguageES,
		LanguagePT,
	}
}

// IsValidLanguage checks if the given code is a supported language.
func IsValidLanguage(lang Language) bool {
	switch lang {
	case LanguageRU, LanguageEN, LanguageDE, LanguageFR, LanguageIT, LanguageES, LanguagePT:
		return true
	default:
		return false
	}
}
