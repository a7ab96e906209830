package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword applies a salted bcrypt hash to the secret. A fresh salt is
// generated per call, so hashing the same secret twice yields different
// hashes. The cost is deliberately expensive: a leaked store must not be
// brute-forceable offline.
func HashPassword(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// PasswordsMatch compares a candidate secret against a stored hash in
// constant time. Mismatch returns false, never an error.
func PasswordsMatch(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
