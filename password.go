package main

import "golang.org/x/crypto/bcrypt"

// passwordHasher turns a write-only password into the value kept in a table.
type passwordHasher func(password string) ([]byte, error)

func bcryptHasher(cost int) passwordHasher {
	return func(password string) ([]byte, error) {
		return bcrypt.GenerateFromPassword([]byte(password), cost)
	}
}
