package domain

// DefaultLanguage is used when no preference has been stored.
const DefaultLanguage = "en"

var supportedLanguages = map[string]struct{}{
	"en": {},
	"ko": {},
}

// Settings represents user configurable options kept outside the matrix.
type Settings struct {
	Language string `json:"language"`
}

// DefaultSettings returns the settings used before anything is stored.
func DefaultSettings() Settings {
	return Settings{Language: DefaultLanguage}
}

// Validate rejects languages without a translation table.
func (s Settings) Validate() error {
	if _, ok := supportedLanguages[s.Language]; !ok {
		return ErrUnsupportedLanguage
	}
	return nil
}
