// Command apitoken mints a bearer token for the HTTP API, signed with JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	jwtmw "trademaster/internal/platform/jwt"
	"trademaster/internal/platform/logging"
)

func main() {
	subject := flag.String("sub", "", "client name recorded as the sub claim")
	scopes := flag.String("scopes", "read", "comma-separated scopes (read, collect, admin)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	logging.Setup()

	if *subject == "" {
		slog.Error("-sub is required")
		os.Exit(2)
	}

	var list []string
	for _, s := range strings.Split(*scopes, ",") {
		if s = strings.TrimSpace(s); s != "" {
			list = append(list, s)
		}
	}

	token, err := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), *ttl).GenerateToken(*subject, list)
	if err != nil {
		slog.Error("failed to mint token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
