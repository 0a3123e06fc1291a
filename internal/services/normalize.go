package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/flexai-site/internal/domain"
)

// Field caps, in code points after NFC normalization.
const (
	MaxNameRunes    = 60
	MaxEmailRunes   = 120
	MaxPhoneRunes   = 30
	MaxTitleRunes   = 150
	MaxMessageRunes = 2000
)

// NormalizeFields applies the server-side input rules to f: NFC
// normalization, trimming, and truncation to each field's cap. It never
// fails; call ValidateFields on the result.
func NormalizeFields(f domain.InquiryFields) domain.InquiryFields {
	return domain.InquiryFields{
		Name:    clean(f.Name, MaxNameRunes),
		Email:   clean(f.Email, MaxEmailRunes),
		Phone:   clean(f.Phone, MaxPhoneRunes),
		Title:   clean(f.Title, MaxTitleRunes),
		Message: clean(f.Message, MaxMessageRunes),
	}
}

// ValidateFields reports the first missing required field, wrapped in
// ErrValidation.
func ValidateFields(f domain.InquiryFields) error {
	switch {
	case f.Name == "":
		return fmt.Errorf("%w: %w", ErrValidation, ErrNameRequired)
	case f.Title == "":
		return fmt.Errorf("%w: %w", ErrValidation, ErrTitleRequired)
	case f.Message == "":
		return fmt.Errorf("%w: %w", ErrValidation, ErrMessageRequired)
	}
	return nil
}

// RequestHash fingerprints normalized fields for idempotency checks. Fields
// are NUL-separated so values cannot run into each other.
func RequestHash(f domain.InquiryFields) string {
	h := sha256.New()
	for _, v := range []string{f.Name, f.Email, f.Phone, f.Title, f.Message} {
		h.Write([]byte(v))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// clean trims, truncates to max runes, and trims again so a cut never leaves
// trailing whitespace behind.
func clean(s string, max int) string {
	s = strings.TrimSpace(norm.NFC.String(s))
	if utf8.RuneCountInString(s) > max {
		s = strings.TrimRightFunc(string([]rune(s)[:max]), unicode.IsSpace)
	}
	return s
}
