package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	pkgAuth "github.com/angelmondragon/webtheme-backend/pkg/auth"
	"github.com/angelmondragon/webtheme-backend/pkg/config"
	"github.com/angelmondragon/webtheme-backend/pkg/enums"
	"github.com/angelmondragon/webtheme-backend/pkg/logger"
	"github.com/joho/godotenv"
)

// devtoken prints an editor access token for local API calls.
func main() {
	logg := logger.New(logger.Options{ServiceName: "devtoken"})
	ctx := context.Background()

	_ = godotenv.Load()

	brandID := flag.String("brand", "", "brand id carried by the token")
	userID := flag.String("user", "dev-user", "user id carried by the token")
	role := flag.String("role", string(enums.EditorRoleOwner), "editor role: owner|editor|viewer")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "resource not working: config", err)
		os.Exit(1)
	}
	if cfg.App.IsProd() {
		fmt.Fprintln(os.Stderr, "devtoken is disabled in prod")
		os.Exit(1)
	}

	parsedRole, err := enums.ParseEditorRole(*role)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:  *userID,
		BrandID: *brandID,
		Role:    parsedRole,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to mint token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
