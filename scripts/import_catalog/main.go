package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/loyaltyhub/core/internal/models"
	"github.com/loyaltyhub/core/internal/repositories"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Imports the offer and achievement catalog from an xlsx workbook. Sheet
// "Offers" columns: code, name, description, kind, game type, min reward,
// max reward, segments JSON, min tier, credit amount, streak required,
// cooldown hours. Sheet "Achievements" columns: code, name, description,
// type, threshold, reward credits. Rows are upserted by code.
func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if len(os.Args) < 2 {
		log.Fatal("usage: import_catalog <catalog.xlsx>")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), os.Getenv("DB_PORT"), envOr("DB_SSLMODE", "disable"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}

	f, err := excelize.OpenFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	offers := repositories.NewOfferRepository(db)
	achievements := repositories.NewAchievementRepository(db)

	totalOffers := 0
	totalAchievements := 0

	for _, sheetName := range f.GetSheetList() {
		fmt.Printf("Importing sheet: %s\n", sheetName)
		rows, err := f.GetRows(sheetName)
		if err != nil {
			fmt.Printf("Error reading sheet %s: %v\n", sheetName, err)
			continue
		}

		switch strings.ToLower(sheetName) {
		case "offers":
			totalOffers += importOffers(offers, rows)
		case "achievements":
			totalAchievements += importAchievements(achievements, rows)
		default:
			fmt.Printf("Skipping unknown sheet: %s\n", sheetName)
		}
	}

	fmt.Printf("Successfully imported %d offers and %d achievements.\n", totalOffers, totalAchievements)
}

func importOffers(repo *repositories.OfferRepository, rows [][]string) int {
	imported := 0
	for i, row := range rows {
		if i == 0 || len(row) < 12 { // Skip header or invalid rows
			continue
		}

		kind := strings.ToUpper(strings.TrimSpace(cell(row, 3)))
		if kind != models.OfferKindGame && kind != models.OfferKindBonus {
			fmt.Printf("Invalid offer kind %q in row %d\n", cell(row, 3), i)
			continue
		}

		offer := models.Offer{
			Code:           strings.TrimSpace(cell(row, 0)),
			Name:           strings.TrimSpace(cell(row, 1)),
			Description:    strings.TrimSpace(cell(row, 2)),
			Kind:           kind,
			GameType:       strings.ToUpper(strings.TrimSpace(cell(row, 4))),
			MinReward:      parseFloat(cell(row, 5)),
			MaxReward:      parseFloat(cell(row, 6)),
			Segments:       strings.TrimSpace(cell(row, 7)),
			MinTier:        strings.TrimSpace(cell(row, 8)),
			CreditAmount:   parseFloat(cell(row, 9)),
			StreakRequired: parseInt(cell(row, 10)),
			CooldownHours:  parseInt(cell(row, 11)),
			IsActive:       true,
		}
		if offer.Code == "" || offer.Name == "" {
			fmt.Printf("Missing code or name in row %d\n", i)
			continue
		}

		if err := repo.Upsert(&offer); err != nil {
			fmt.Printf("Error upserting offer %s in row %d: %v\n", offer.Code, i, err)
		} else {
			imported++
		}
	}
	return imported
}

func importAchievements(repo *repositories.AchievementRepository, rows [][]string) int {
	imported := 0
	for i, row := range rows {
		if i == 0 || len(row) < 6 { // Skip header or invalid rows
			continue
		}

		achievementType := strings.ToUpper(strings.TrimSpace(cell(row, 3)))
		switch achievementType {
		case models.AchievementGamesPlayed, models.AchievementStreak, models.AchievementPoints:
		default:
			fmt.Printf("Invalid achievement type %q in row %d\n", cell(row, 3), i)
			continue
		}

		def := models.AchievementDef{
			Code:          strings.TrimSpace(cell(row, 0)),
			Name:          strings.TrimSpace(cell(row, 1)),
			Description:   strings.TrimSpace(cell(row, 2)),
			Type:          achievementType,
			Threshold:     int64(parseInt(cell(row, 4))),
			RewardCredits: parseFloat(cell(row, 5)),
		}
		if def.Code == "" || def.Name == "" || def.Threshold < 1 {
			fmt.Printf("Missing code, name or threshold in row %d\n", i)
			continue
		}

		if err := repo.UpsertDef(&def); err != nil {
			fmt.Printf("Error upserting achievement %s in row %d: %v\n", def.Code, i, err)
		} else {
			imported++
		}
	}
	return imported
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
