package service

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/metalworks/storefront/internal/config"
)

// bcrypt 只接受 72 字节以内的输入
const maxPasswordBytes = 72

// weakPasswordError 携带面向用户的提示，匹配 ErrWeakPassword
type weakPasswordError string

func (e weakPasswordError) Error() string { return string(e) }

func (e weakPasswordError) Is(target error) bool { return target == ErrWeakPassword }

// passwordClasses 密码中出现的字符类别
type passwordClasses struct {
	upper, lower, digit, other bool
}

func classifyPassword(password string) passwordClasses {
	var found passwordClasses
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			found.upper = true
		case unicode.IsLower(r):
			found.lower = true
		case unicode.IsDigit(r):
			found.digit = true
		default:
			found.other = true
		}
	}
	return found
}

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if policy.MinLength > 0 && utf8.RuneCountInString(password) < policy.MinLength {
		return weakPasswordError(fmt.Sprintf("Password must be at least %d characters long.", policy.MinLength))
	}
	if len(password) > maxPasswordBytes {
		return weakPasswordError(fmt.Sprintf("Password must be at most %d bytes long.", maxPasswordBytes))
	}

	found := classifyPassword(password)
	rules := []struct {
		required bool
		present  bool
		message  string
	}{
		{policy.RequireUpper, found.upper, "Password must contain an uppercase letter."},
		{policy.RequireLower, found.lower, "Password must contain a lowercase letter."},
		{policy.RequireNumber, found.digit, "Password must contain a number."},
		{policy.RequireSpecial, found.other, "Password must contain a special character."},
	}
	for _, rule := range rules {
		if rule.required && !rule.present {
			return weakPasswordError(rule.message)
		}
	}
	return nil
}
