package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a one-way bcrypt hash of plaintext.
// bcrypt generates a fresh salt per call, so two hashes of the same
// password differ while both verify.
func HashPassword(plaintext string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored hash.
// A mismatch is a normal false result, never an error.
func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
