// Command token mints a signed API token for local use. There is no login
// flow; an identity provider or this tool issues tokens.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"backoffice/internal/domain/auth"
	"backoffice/internal/platform/config"
)

func main() {
	userID := flag.String("user", "", "user id placed in the token")
	employeeID := flag.String("employee", "", "employee id for employee tokens")
	role := flag.String("role", auth.RoleAdmin, "admin or employee")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(1)
	}
	if *userID == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		os.Exit(2)
	}
	if *role == auth.RoleEmployee && *employeeID == "" {
		fmt.Fprintln(os.Stderr, "-employee is required for employee tokens")
		os.Exit(2)
	}

	token, err := auth.GenerateToken(cfg.JWTSecret, auth.Claims{
		UserID:     *userID,
		EmployeeID: *employeeID,
		RoleName:   *role,
	}, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
