package validation

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxFirstNameLength    = 64
	MaxLastNameLength     = 64
	MaxLanguageCodeLength = 35

	// MaxUserDataBytes bounds the serialized application payload of a user.
	MaxUserDataBytes = 10 * 1024
)

// ErrPayloadTooLarge is wrapped by ValidateUserData when the encoded
// payload exceeds MaxUserDataBytes.
var ErrPayloadTooLarge = fmt.Errorf("payload exceeds %d bytes", MaxUserDataBytes)

// ValidateIdentity проверяет telegram id пользователя
func ValidateIdentity(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("telegram id cannot be empty")
	}
	if strings.ContainsAny(id, " \t\r\n") {
		return fmt.Errorf("telegram id cannot contain whitespace")
	}
	return nil
}

// ValidateProfileName checks a name taken from verified init data. Telegram
// already bounds its length, only blank names are rejected.
func ValidateProfileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

// ValidateFirstName проверяет имя пользователя
func ValidateFirstName(firstName string) error {
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		return fmt.Errorf("first name cannot be empty")
	}

	if utf8.RuneCountInString(firstName) > MaxFirstNameLength {
		return fmt.Errorf("first name cannot exceed %d characters", MaxFirstNameLength)
	}

	return nil
}

// ValidateLastName проверяет фамилию пользователя
func ValidateLastName(lastName string) error {
	lastName = strings.TrimSpace(lastName)
	if lastName == "" {
		return fmt.Errorf("last name cannot be empty")
	}

	if utf8.RuneCountInString(lastName) > MaxLastNameLength {
		return fmt.Errorf("last name cannot exceed %d characters", MaxLastNameLength)
	}

	return nil
}

// ValidateLanguageCode accepts IETF tags like "en" or "pt-br".
func ValidateLanguageCode(code string) error {
	if len(code) > MaxLanguageCodeLength {
		return fmt.Errorf("language code cannot exceed %d characters", MaxLanguageCodeLength)
	}
	return nil
}

// ValidateUserData encodes data and checks it against MaxUserDataBytes.
// The encoded form is returned so callers do not marshal twice.
func ValidateUserData(data map[string]interface{}) ([]byte, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("user data is not serializable: %w", err)
	}

	if len(encoded) > MaxUserDataBytes {
		return nil, fmt.Errorf("%w: got %d bytes", ErrPayloadTooLarge, len(encoded))
	}

	return encoded, nil
}
