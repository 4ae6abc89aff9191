// Command devtoken prints a staff access token signed with JWT_SECRET, for
// calling the API locally without the hotel's auth service.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/hotel-frontdesk/internal/middleware"
	"github.com/iliyamo/hotel-frontdesk/internal/utils"
)

func main() {
	staff := flag.String("staff", "1", "staff id recorded as the acting user")
	role := flag.String("role", middleware.RoleFrontDesk, "ADMIN or FRONT_DESK")
	ttl := flag.Duration("ttl", 8*time.Hour, "token lifetime")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("godotenv: %v", err)
	}
	if *role != middleware.RoleAdmin && *role != middleware.RoleFrontDesk {
		log.Fatalf("unknown role %q", *role)
	}
	tok, err := utils.NewStaffToken(os.Getenv("JWT_SECRET"), *staff, *role, *ttl)
	if err != nil {
		log.Fatalf("devtoken: %v", err)
	}
	fmt.Println(tok.Token)
}
