package security

import "golang.org/x/crypto/bcrypt"

// HashCredential hashes a registration password for storage. The core never
// verifies credentials itself; login verification lives in the identity
// provider, which reads the same hash.
func HashCredential(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
