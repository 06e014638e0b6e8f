package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/epasal/epasal-backend/internal/db"
	"github.com/epasal/epasal-backend/pkg/config"
)

type seedLaptop struct {
	brand       string
	display     string
	model       string
	year        int
	productType string
	processor   string
	series      string
	generation  string
	ram         int
	ramType     string
	storage     int
	storageType string
	graphic     string
	graphicRAM  int
	touchscreen bool
	showPrice   float64
	costPrice   float64
	quantity    int
}

var laptops = []seedLaptop{
	{"Lenovo", "Lenovo ThinkPad X1 Carbon Gen 11", "ThinkPad X1 Carbon", 2023, "Ultrabook",
		"Intel", "Core i7", "13th Gen", 16, "LPDDR5", 512, "SSD", "Intel Iris Xe", 0, false,
		215000, 198000, 8},
	{"Asus", "Asus ROG Zephyrus G14", "ROG Zephyrus G14", 2023, "Gaming",
		"AMD", "Ryzen 9", "7000 Series", 16, "DDR5", 1024, "SSD", "RTX 4060", 8, false,
		265000, 240000, 5},
	{"Acer", "Acer Aspire 5", "Aspire 5", 2022, "Everyday",
		"Intel", "Core i5", "12th Gen", 8, "DDR4", 512, "SSD", "Intel Iris Xe", 0, false,
		92000, 84000, 14},
	{"MSI", "MSI Katana 15", "Katana 15", 2023, "Gaming",
		"Intel", "Core i7", "13th Gen", 16, "DDR5", 512, "SSD", "RTX 4050", 6, false,
		175000, 158000, 7},
	{"Lenovo", "Lenovo Yoga 7i 2-in-1", "Yoga 7i", 2023, "Convertible",
		"Intel", "Core i5", "13th Gen", 16, "LPDDR5", 512, "SSD", "Intel Iris Xe", 0, true,
		145000, 131000, 6},
	{"Asus", "Asus Vivobook 15", "Vivobook 15", 2022, "Everyday",
		"AMD", "Ryzen 5", "5000 Series", 8, "DDR4", 256, "SSD", "Radeon Graphics", 0, false,
		72000, 65000, 20},
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	for _, l := range laptops {
		_, err := pool.Exec(ctx, `
            INSERT INTO laptop_details (
                brand_name, display_name, model_name, model_year, product_type,
                processor, processor_series, processor_generation, ram, ram_type,
                storage, storage_type, graphic, graphic_ram, touchscreen,
                show_price, cost_price, quantity
            ) VALUES (
                $1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
                $11, $12, $13, $14, $15, $16, $17, $18
            )`,
			l.brand, l.display, l.model, l.year, l.productType,
			l.processor, l.series, l.generation, l.ram, l.ramType,
			l.storage, l.storageType, l.graphic, l.graphicRAM, l.touchscreen,
			l.showPrice, l.costPrice, l.quantity)
		if err != nil {
			log.Fatal().Err(err).Str("model", l.model).Msg("seed insert failed")
		}
	}

	log.Info().Int("count", len(laptops)).Msg("seed data inserted")
}
