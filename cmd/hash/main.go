package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/andrasnagy-data/legacyusers/internal/shared/password"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/hash/main.go <password> [username]")
		os.Exit(1)
	}

	plain := os.Args[1]
	hash, err := password.Hash(plain, 0)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Hash: %s\n", hash)

	if len(os.Args) < 3 {
		return
	}

	record, err := json.Marshal(map[string]string{
		"username":     os.Args[2],
		"passwordHash": hash,
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nAdd to your users file:\n")
	fmt.Printf("%s\n", record)
}
