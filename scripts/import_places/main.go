package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mehrdadh/hangout_bot/internal/models"
	"github.com/mehrdadh/hangout_bot/internal/repositories"
)

// Imports a place catalog spreadsheet into the places table. Each sheet is a
// category; columns are Name, PriceTier, Rating, Latitude, Longitude,
// Description.
func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if len(os.Args) < 2 {
		log.Fatal("usage: import_places <file.xlsx>")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), os.Getenv("DB_PORT"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}

	f, err := excelize.OpenFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	placeRepo := repositories.NewPlaceRepository(db)

	totalImported := 0

	for _, sheetName := range f.GetSheetList() {
		fmt.Printf("Importing sheet: %s\n", sheetName)
		rows, err := f.GetRows(sheetName)
		if err != nil {
			fmt.Printf("Error reading sheet %s: %v\n", sheetName, err)
			continue
		}

		batch := make([]models.Place, 0, len(rows))
		for i, row := range rows {
			if i == 0 || len(row) < 5 { // Skip header or invalid rows
				continue
			}

			// row[0]: Name
			// row[1]: PriceTier (1-4)
			// row[2]: Rating (0-5)
			// row[3]: Latitude
			// row[4]: Longitude
			// row[5]: Description (optional)

			name := strings.TrimSpace(row[0])
			if name == "" {
				continue
			}

			priceTier, err := strconv.Atoi(strings.TrimSpace(row[1]))
			if err != nil || priceTier < 1 || priceTier > 4 {
				fmt.Printf("Invalid price tier %q in row %d\n", row[1], i)
				continue
			}

			rating, _ := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
			lat, latErr := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
			lng, lngErr := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
			if latErr != nil || lngErr != nil {
				fmt.Printf("Invalid coordinates in row %d\n", i)
				continue
			}

			description := ""
			if len(row) > 5 {
				description = strings.TrimSpace(row[5])
			}

			batch = append(batch, models.Place{
				Name:        name,
				Category:    sheetName,
				PriceTier:   priceTier,
				Rating:      rating,
				Latitude:    lat,
				Longitude:   lng,
				Description: description,
			})
		}

		if len(batch) == 0 {
			continue
		}
		if err := placeRepo.UpsertPlaces(batch); err != nil {
			fmt.Printf("Error importing sheet %s: %v\n", sheetName, err)
			continue
		}
		totalImported += len(batch)
	}

	fmt.Printf("Successfully imported %d places.\n", totalImported)
}
