// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashString returns the hex-encoded HMAC-SHA256 of data under hashKey.
func HashString(data string, hashKey string) string {
	return hex.EncodeToString(hashString([]byte(data), hashKey))
}

func hashString(data []byte, hashKey string) []byte {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write(data)
	return hasher.Sum(nil)
}

// HashPassword pre-hashes password with HMAC-SHA256 under hashKey and stores
// the hex digest with bcrypt. The pre-hash keeps every input under bcrypt's
// 72-byte limit.
func HashPassword(password string, hashKey string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(HashString(password, hashKey)), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	return string(hashed), nil
}

// CheckPassword reports whether password matches the stored hash.
// A malformed hash is reported as a mismatch.
func CheckPassword(hash string, password string, hashKey string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(HashString(password, hashKey))) == nil
}
