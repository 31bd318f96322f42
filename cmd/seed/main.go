package main

import (
	"log"
	"os"

	"shop-assistant-be/internal/constant"
	"shop-assistant-be/internal/model"
	"shop-assistant-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("🌱 Seeding demo storefront content")

	seedProducts(db)
	seedFAQs(db)
	seedKnowledge(db)

	color.Cyan("Done.")
}

func seedProducts(db *gorm.DB) {
	color.Yellow("\nProducts")

	products := []model.Product{
		{
			Name:        "Atlas Espresso Machine",
			Description: "Semi-automatic espresso machine with a 15-bar pump, PID temperature control and a steam wand for milk drinks.",
			Category:    "kitchen",
			Price:       349.00,
			Tags:        datatypes.NewJSONSlice([]string{"coffee", "espresso", "brewing"}),
			Language:    "en",
			IsActive:    true,
		},
		{
			Name:        "Gooseneck Pour-Over Kettle",
			Description: "1L stainless steel kettle with a precision spout and built-in thermometer for pour-over coffee.",
			Category:    "kitchen",
			Price:       59.90,
			Tags:        datatypes.NewJSONSlice([]string{"coffee", "kettle", "pour-over"}),
			Language:    "en",
			IsActive:    true,
		},
		{
			Name:        "Burr Coffee Grinder",
			Description: "Conical burr grinder with 40 grind settings, from espresso-fine to french-press-coarse.",
			Category:    "kitchen",
			Price:       129.00,
			Tags:        datatypes.NewJSONSlice([]string{"coffee", "grinder"}),
			Language:    "en",
			IsActive:    true,
		},
		{
			Name:        "Ergonomic Desk Lamp",
			Description: "LED desk lamp with adjustable color temperature, USB charging port and a foldable arm.",
			Category:    "office",
			Price:       45.50,
			Tags:        datatypes.NewJSONSlice([]string{"lighting", "desk", "office"}),
			Language:    "en",
			IsActive:    true,
		},
		{
			Name:        "Mesin Kopi Listrik Nusantara",
			Description: "Mesin kopi otomatis dengan penggiling biji terintegrasi dan panci susu.",
			Category:    "kitchen",
			Price:       289.00,
			Tags:        datatypes.NewJSONSlice([]string{"kopi", "mesin"}),
			Language:    "id",
			IsActive:    true,
		},
	}

	for _, p := range products {
		var existing model.Product
		if err := db.Where("name = ?", p.Name).First(&existing).Error; err == nil {
			color.Yellow("  %s already exists, skipping", p.Name)
			continue
		}
		if err := db.Create(&p).Error; err != nil {
			color.Red("  failed: %s: %v", p.Name, err)
		} else {
			color.Green("  created: %s", p.Name)
		}
	}
}

func seedFAQs(db *gorm.DB) {
	color.Yellow("\nFAQ entries")

	faqs := []model.FAQEntry{
		{
			Question: "How long does delivery take?",
			Answer:   "Domestic orders arrive within 2-4 business days. International orders take 5-10 business days depending on the destination.",
			Category: "shipping",
			Keywords: datatypes.NewJSONSlice([]string{"delivery", "shipping", "time"}),
			Language: "en",
			Priority: 3,
			IsActive: true,
		},
		{
			Question: "Can I return a product?",
			Answer:   "Yes, unused products can be returned within 30 days of delivery for a full refund. Start a return from your order page.",
			Category: "returns",
			Keywords: datatypes.NewJSONSlice([]string{"return", "refund"}),
			Language: "en",
			Priority: 3,
			IsActive: true,
		},
		{
			Question: "Which payment methods do you accept?",
			Answer:   "We accept major credit cards, bank transfer and popular e-wallets.",
			Category: "payments",
			Keywords: datatypes.NewJSONSlice([]string{"payment", "credit card", "wallet"}),
			Language: "en",
			Priority: 1,
			IsActive: true,
		},
	}

	for _, f := range faqs {
		var existing model.FAQEntry
		if err := db.Where("question = ?", f.Question).First(&existing).Error; err == nil {
			color.Yellow("  %q already exists, skipping", f.Question)
			continue
		}
		if err := db.Create(&f).Error; err != nil {
			color.Red("  failed: %q: %v", f.Question, err)
		} else {
			color.Green("  created: %q", f.Question)
		}
	}
}

func seedKnowledge(db *gorm.DB) {
	color.Yellow("\nKnowledge entries")

	entries := []model.KnowledgeEntry{
		{
			Title:    "International shipping policy",
			Content:  "Yes, we ship internationally to most countries. Shipping costs are calculated at checkout based on weight and destination. Customs duties are the responsibility of the recipient.",
			Type:     constant.KnowledgeTypePolicy,
			Category: "shipping",
			Keywords: datatypes.NewJSONSlice([]string{"international", "shipping", "customs"}),
			Language: "en",
			Priority: 5,
			IsActive: true,
		},
		{
			Title:    "Descaling your espresso machine",
			Content:  "Run the descaling cycle monthly: fill the reservoir with descaling solution, start the cycle from the maintenance menu and flush twice with fresh water.",
			Type:     constant.KnowledgeTypeInstruction,
			Category: "care",
			Keywords: datatypes.NewJSONSlice([]string{"descale", "espresso", "maintenance"}),
			Language: "en",
			Priority: 2,
			IsActive: true,
		},
		{
			Title:    "Choosing a coffee grind size",
			Content:  "Espresso needs a fine grind, pour-over a medium grind and french press a coarse grind. When in doubt start medium and adjust towards the taste you want.",
			Type:     constant.KnowledgeTypeGuide,
			Category: "guides",
			Keywords: datatypes.NewJSONSlice([]string{"grind", "coffee", "brewing"}),
			Language: "en",
			Priority: 2,
			IsActive: true,
		},
	}

	for _, e := range entries {
		var existing model.KnowledgeEntry
		if err := db.Where("title = ?", e.Title).First(&existing).Error; err == nil {
			color.Yellow("  %q already exists, skipping", e.Title)
			continue
		}
		if err := db.Create(&e).Error; err != nil {
			color.Red("  failed: %q: %v", e.Title, err)
		} else {
			color.Green("  created: %q", e.Title)
		}
	}
}
