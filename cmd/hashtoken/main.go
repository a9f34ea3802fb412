// cmd/hashtoken/main.go
//
// hashtoken prints the argon2id hash of an operator API token, suitable for
// the API_TOKEN_HASH environment variable.
//
// Usage: hashtoken <token>
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/minemaniauk/gamerooms/internal/auth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashtoken <token>")
		os.Exit(2)
	}

	hash, err := auth.CreateHash(os.Args[1], auth.Params)
	if err != nil {
		log.Fatalf("failed to hash token: %v", err)
	}
	fmt.Println(hash)
}
