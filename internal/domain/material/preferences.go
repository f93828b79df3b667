package material

import (
	"context"
	"strings"

	"github.com/turtacn/MatForge/pkg/errors"
)

// Language is a supported UI language code.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSwedish Language = "sv"
	LanguageFrench  Language = "fr"
	LanguageArabic  Language = "ar"
	LanguageAmharic Language = "am"
)

// DefaultLanguage applies until a user picks one.
const DefaultLanguage = LanguageEnglish

// Languages lists every supported language.
var Languages = []Language{LanguageEnglish, LanguageSwedish, LanguageFrench, LanguageArabic, LanguageAmharic}

// ParseLanguage accepts a language code case-insensitively.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range Languages {
		if l == v {
			return l, nil
		}
	}
	return "", errors.New(errors.ErrCodePreferenceInvalid, "unsupported language").WithDetail(s)
}

// RTL reports whether the language is written right to left.
func (l Language) RTL() bool { return l == LanguageArabic }

// Preferences are the per-user UI settings.
type Preferences struct {
	Language    Language `json:"language"`
	ShowLanding bool     `json:"showLanding"`
	RTL         bool     `json:"rtl"`
}

// DefaultPreferences is what a user without stored settings gets.
func DefaultPreferences() Preferences {
	return Preferences{Language: DefaultLanguage, ShowLanding: true}
}

// PreferenceStore loads and saves Preferences. Load returns the defaults for
// unknown users.
type PreferenceStore interface {
	Load(ctx context.Context, user string) (Preferences, error)
	Save(ctx context.Context, user string, p Preferences) error
}
