/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package stringutil

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

const (
	// ShortIdLength is the length of store identifiers.
	ShortIdLength = 8

	shortIdAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	storeNamePattern = `^[a-z0-9-]+$`
)

var (
	rxStoreName = regexp.MustCompile(storeNamePattern)
	rxSensitive = regexp.MustCompile(`(?i)(password|secret|token)`)
)

// NewShortId returns a random, URL-safe, lowercase identifier of ShortIdLength
// characters. The alphabet is 36 symbols, so 8 characters carry ~41 bits,
// enough for the store cap this service enforces.
func NewShortId() (string, error) {
	buf := make([]byte, ShortIdLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %v", err)
	}
	result := make([]byte, ShortIdLength)
	for i, b := range buf {
		result[i] = shortIdAlphabet[int(b)%len(shortIdAlphabet)]
	}
	return string(result), nil
}

// NewPassword returns a random password with at least bits of entropy.
// The raw bytes are base64-rendered and non-alphanumerics stripped, so the
// result is safe to pass through env vars and argv.
func NewPassword(bits int) (string, error) {
	if bits < 96 {
		bits = 96
	}
	buf := make([]byte, (bits+7)/8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %v", err)
	}
	encoded := base64.StdEncoding.EncodeToString(buf)
	var cleaned strings.Builder
	for _, r := range encoded {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			cleaned.WriteRune(r)
		}
	}
	return cleaned.String(), nil
}

// IsValidStoreName reports whether name is 3-50 chars of lowercase
// alphanumerics and hyphens.
func IsValidStoreName(name string) bool {
	if len(name) < 3 || len(name) > 50 {
		return false
	}
	return rxStoreName.MatchString(name)
}

// IsSensitiveKey reports whether a key should be redacted in log output.
func IsSensitiveKey(key string) bool {
	return rxSensitive.MatchString(key)
}

// RedactMap returns a copy of m with values of sensitive keys replaced.
func RedactMap(m map[string]string) map[string]string {
	if len(m) == 0 {
		return m
	}
	result := make(map[string]string, len(m))
	for k, v := range m {
		if IsSensitiveKey(k) {
			result[k] = "[REDACTED]"
		} else {
			result[k] = v
		}
	}
	return result
}

// Base64Encode encodes a string to base64 format.
func Base64Encode(inputString string) string {
	if inputString == "" {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(inputString))
}

// Base64Decode decodes a base64 encoded string, returns empty string if decode fails.
func Base64Decode(inputString string) string {
	if inputString == "" {
		return ""
	}
	decodedBytes, err := base64.StdEncoding.DecodeString(inputString)
	if err != nil {
		return ""
	}
	return string(decodedBytes)
}
