// Package main mints operator tokens and signing secrets for the EcoSense service.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/sebasr/ecosense-service/internal/auth"
	"github.com/sebasr/ecosense-service/internal/config"
)

func main() {
	subject := flag.String("subject", "operator", "token subject (operator name)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	newSecret := flag.Bool("new-secret", false, "print a new random signing secret and exit")
	flag.Parse()

	if *newSecret {
		secret, err := auth.GenerateSecret(auth.DefaultSecretLength)
		if err != nil {
			log.Fatalf("Failed to generate secret: %v", err)
		}
		fmt.Println(secret)
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Error loading .env file: %v", err)
	}

	secret := config.GetSecret("AUTH_JWT_SECRET", "")
	if secret == "" {
		log.Fatal("AUTH_JWT_SECRET is not set")
	}

	token, expiresAt, err := auth.NewJWTService(secret, *ttl).GenerateToken(*subject)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", expiresAt.UTC().Format(time.RFC3339))
}
