package models

import "strings"

// Language selects the register of generated text.
type Language string

const (
	English  Language = "English"
	Hinglish Language = "Hinglish"
)

// ParseLanguage maps user input to a Language, defaulting to English.
func ParseLanguage(s string) Language {
	if strings.EqualFold(strings.TrimSpace(s), string(Hinglish)) {
		return Hinglish
	}
	return English
}
