package codable

import (
	"strings"
	"unicode"
)

// Masker hides part of a string value while keeping it recognizable.
type Masker interface {
	Mask(value string) string
}

// MaskerFunc adapts a plain function to Masker.
type MaskerFunc func(value string) string

// Mask calls f(value).
func (f MaskerFunc) Mask(value string) string {
	return f(value)
}

// SSNMasker keeps the last four digits of a social security number.
func SSNMasker() Masker {
	return MaskerFunc(func(value string) string {
		last, ok := lastDigits(value, 4)
		if !ok {
			return stars(value)
		}
		return "***-**-" + last
	})
}

// EmailMasker keeps the first character of the local part and the domain.
func EmailMasker() Masker {
	return MaskerFunc(func(value string) string {
		at := strings.LastIndex(value, "@")
		if at < 1 {
			return stars(value)
		}
		first := []rune(value[:at])[0]
		return string(first) + "***" + value[at:]
	})
}

// PhoneMasker keeps the last four digits of a phone number, preserving a
// leading area code parenthesis.
func PhoneMasker() Masker {
	return MaskerFunc(func(value string) string {
		last, ok := lastDigits(value, 4)
		if !ok {
			return stars(value)
		}
		n := len(digits(value))
		switch {
		case n >= 10 && strings.HasPrefix(value, "("):
			return "(***) ***-" + last
		case n >= 10:
			return "***-***-" + last
		}
		return "***-" + last
	})
}

// CardMasker keeps the last four digits of a card number. Space and dash
// grouping is preserved as groups of four.
func CardMasker() Masker {
	return MaskerFunc(func(value string) string {
		last, ok := lastDigits(value, 4)
		if !ok {
			return stars(value)
		}
		hidden := len(digits(value)) - 4

		var sep string
		switch {
		case strings.Contains(value, " "):
			sep = " "
		case strings.Contains(value, "-"):
			sep = "-"
		default:
			return strings.Repeat("*", hidden) + last
		}

		groups := make([]string, 0, hidden/4+2)
		for i := 0; i < hidden; i += 4 {
			groups = append(groups, "****")
		}
		return strings.Join(append(groups, last), sep)
	})
}

// NameMasker keeps the first letter of each word.
func NameMasker() Masker {
	return MaskerFunc(func(value string) string {
		words := strings.Fields(value)
		for i, word := range words {
			runes := []rune(word)
			words[i] = string(runes[0]) + strings.Repeat("*", len(runes)-1)
		}
		return strings.Join(words, " ")
	})
}

func builtinMaskers() map[MaskType]Masker {
	return map[MaskType]Masker{
		MaskSSN:   SSNMasker(),
		MaskEmail: EmailMasker(),
		MaskPhone: PhoneMasker(),
		MaskCard:  CardMasker(),
		MaskName:  NameMasker(),
	}
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func lastDigits(s string, n int) (string, bool) {
	d := digits(s)
	if len(d) < n {
		return "", false
	}
	return d[len(d)-n:], true
}

func stars(s string) string {
	return strings.Repeat("*", len(s))
}
