package utils

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {}, "abc12345": {},
	"letmein1": {}, "trustno1": {}, "passw0rd": {}, "superman": {}, "11111111": {},
}

// ValidatePassword returns every rule the password breaks.
func ValidatePassword(password, username string) []string {
	var problems []string

	if len(password) < MinPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if password != "" && strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		problems = append(problems, "This password is entirely numeric.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, "This password is too common.")
	}
	if tooSimilar(password, username) {
		problems = append(problems, "The password is too similar to the username.")
	}
	return problems
}

func tooSimilar(password, username string) bool {
	if len(username) < 3 || password == "" {
		return false
	}
	p := strings.ToLower(password)
	u := strings.ToLower(username)
	return strings.Contains(p, u) || strings.Contains(u, p)
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
