// scripts/generate_password.go
//
// Generates a bcrypt hash for a password, matching the cost the API uses.
// Handy when rotating the seeded admin credential directly in the database:
//
//	go run scripts/generate_password.go 'NewAdminPassword1'
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: generate_password <password> [cost]")
	}
	password := os.Args[1]

	cost := 12 // default BCRYPT_COST
	if len(os.Args) > 2 {
		parsed, err := strconv.Atoi(os.Args[2])
		if err != nil || parsed < bcrypt.MinCost || parsed > bcrypt.MaxCost {
			log.Fatalf("invalid cost %q", os.Args[2])
		}
		cost = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		log.Fatalf("failed to generate hash: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		log.Fatalf("hash verification failed: %v", err)
	}

	fmt.Println(string(hash))
}
