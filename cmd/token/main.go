// Command token prints a signed editor token for the admin API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yakoovad/meeting-guide/internal/auth"
	"github.com/yakoovad/meeting-guide/pkg/config"
)

func main() {
	tokenType := flag.String("type", string(auth.TokenTypeAdmin), "token type: admin (read and write) or user (read only)")
	subject := flag.String("subject", "editor", "name of the token holder")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	switch auth.TokenType(*tokenType) {
	case auth.TokenTypeAdmin, auth.TokenTypeUser:
	default:
		fmt.Fprintf(os.Stderr, "unknown token type %q\n", *tokenType)
		os.Exit(2)
	}

	token, err := auth.NewTokens(cfg.TokenSecret).Generate(auth.TokenType(*tokenType), *subject, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
