// Package main bootstraps the asset types and system accounts the
// Operation Facade depends on: SYSTEM_TREASURY, SYSTEM_BONUS_POOL,
// and SYSTEM_REVENUE, one per configured asset type.
package main

import (
	"log"
	"os"
	"strconv"
	"strings"

	"walletengine/internal/config"
	"walletengine/internal/models"
	"walletengine/internal/store"
)

func main() {
	config.LoadEnv()

	if err := store.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if sqlDB, err := store.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("⚠️ Failed to close PostgreSQL connection: %v", err)
			}
		}
	}()

	assetCodes := strings.Split(config.GetEnv("SEED_ASSET_CODES", "GOLD:2,POINTS:0"), ",")

	for _, spec := range assetCodes {
		parts := strings.SplitN(spec, ":", 2)
		code := strings.ToUpper(strings.TrimSpace(parts[0]))
		if code == "" {
			continue
		}
		decimalPlaces := 2
		if len(parts) == 2 {
			if n, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil && n >= 0 {
				decimalPlaces = n
			}
		}

		assetType, err := ensureAssetType(code, decimalPlaces)
		if err != nil {
			log.Fatalf("Failed to seed asset type %s: %v", code, err)
		}

		for _, name := range []string{models.SystemTreasury, models.SystemBonusPool, models.SystemRevenue} {
			if err := ensureSystemAccount(name, assetType.ID); err != nil {
				log.Fatalf("Failed to seed system account %s/%s: %v", name, code, err)
			}
		}

		log.Printf("✅ Seeded asset type %s with system accounts", code)
	}

	if alice := os.Getenv("SEED_DEMO_USERS"); alice == "true" {
		seedDemoUsers()
	}
}

func ensureAssetType(code string, decimalPlaces int) (*models.AssetType, error) {
	var existing models.AssetType
	err := store.DB.Where("code = ?", code).First(&existing).Error
	if err == nil {
		return &existing, nil
	}

	at := models.AssetType{
		Code:          code,
		Name:          code,
		DecimalPlaces: decimalPlaces,
		IsActive:      true,
	}
	if err := store.DB.Create(&at).Error; err != nil {
		return nil, err
	}
	return &at, nil
}

func ensureSystemAccount(name, assetTypeID string) error {
	var existing models.Account
	err := store.DB.Where("account_type = ? AND user_id = ? AND asset_type_id = ?", models.AccountTypeSystem, name, assetTypeID).First(&existing).Error
	if err == nil {
		return nil
	}

	initialBalance := 0.0
	if name == models.SystemTreasury || name == models.SystemBonusPool {
		initialBalance = 10_000_000
	}

	account := models.Account{
		UserID:      name,
		AccountType: models.AccountTypeSystem,
		AssetTypeID: assetTypeID,
		Balance:     initialBalance,
		DisplayName: name,
		IsActive:    true,
	}
	return store.DB.Create(&account).Error
}

// seedDemoUsers creates the two demo accounts used by the end-to-end
// scenarios: user_alice and user_bob, both GOLD.
func seedDemoUsers() {
	var gold models.AssetType
	if err := store.DB.Where("code = ?", "GOLD").First(&gold).Error; err != nil {
		log.Printf("⚠️ Skipping demo users: GOLD asset type not seeded: %v", err)
		return
	}

	demo := []struct {
		userID  string
		balance float64
	}{
		{"user_alice", 500},
		{"user_bob", 150},
	}

	for _, d := range demo {
		var existing models.Account
		err := store.DB.Where("account_type = ? AND user_id = ? AND asset_type_id = ?", models.AccountTypeUser, d.userID, gold.ID).First(&existing).Error
		if err == nil {
			continue
		}
		account := models.Account{
			UserID:      d.userID,
			AccountType: models.AccountTypeUser,
			AssetTypeID: gold.ID,
			Balance:     d.balance,
			DisplayName: d.userID,
			IsActive:    true,
		}
		if err := store.DB.Create(&account).Error; err != nil {
			log.Printf("⚠️ Failed to seed demo user %s: %v", d.userID, err)
		}
	}
	log.Println("✅ Seeded demo users alice and bob")
}
