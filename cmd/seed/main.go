package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/domain"
	"foodgram/internal/pkg/imagedata"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/logger"
	"foodgram/internal/storage"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seedRecipe struct {
	author  int
	name    string
	text    string
	minutes int
	lines   map[string]int
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("", "info", os.Stderr)
		bootLog.Fatal().Err(err).Msg("config")
	}
	log := logger.New(cfg.AppEnv, cfg.LogLevel, os.Stdout)
	if cfg.IsProd() {
		log.Fatal().Msg("seed refuses to run in production")
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("DB connection failed")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Info().Msg("Cleaning old data...")
	for _, table := range []string{"shopping_carts", "favorites", "subscriptions", "recipe_ingredients", "recipes", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatal().Err(err).Str("table", table).Msg("cleanup failed")
		}
	}

	// ================== USERS ==================
	log.Info().Msg("Creating users...")
	users := []domain.User{
		{Email: "anna@foodgram.local", Username: "anna", FirstName: "Анна", LastName: "Иванова"},
		{Email: "boris@foodgram.local", Username: "boris", FirstName: "Борис", LastName: "Петров"},
		{Email: "vera@foodgram.local", Username: "vera", FirstName: "Вера", LastName: "Сидорова"},
	}
	if err := db.Create(&users).Error; err != nil {
		log.Fatal().Err(err).Msg("create users")
	}

	// ================== INGREDIENTS ==================
	log.Info().Msg("Creating ingredients...")
	ingredients := []domain.Ingredient{
		{Name: "мука", MeasurementUnit: "г"},
		{Name: "молоко", MeasurementUnit: "мл"},
		{Name: "яйца", MeasurementUnit: "шт"},
		{Name: "сахар", MeasurementUnit: "г"},
		{Name: "свёкла", MeasurementUnit: "шт"},
		{Name: "картофель", MeasurementUnit: "г"},
		{Name: "соль", MeasurementUnit: "по вкусу"},
	}
	db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}, {Name: "measurement_unit"}},
		DoNothing: true,
	}).Create(&ingredients)

	byName := map[string]int64{}
	var stored []domain.Ingredient
	db.Find(&stored)
	for _, i := range stored {
		byName[i.Name] = i.ID
	}

	// ================== RECIPES ==================
	log.Info().Msg("Creating recipes...")
	disk := storage.NewDisk(cfg.UploadsDir, cfg.StaticURLBase)
	recipes := []seedRecipe{
		{0, "Блины", "Смешать, дать постоять, жарить на сковороде.", 30, map[string]int{"мука": 200, "молоко": 500, "яйца": 2, "сахар": 20}},
		{0, "Омлет", "Взбить яйца с молоком и запечь.", 15, map[string]int{"яйца": 3, "молоко": 100, "соль": 1}},
		{1, "Борщ", "Варить свёклу и картофель до готовности.", 90, map[string]int{"свёкла": 2, "картофель": 400, "соль": 1}},
		{2, "Картофельное пюре", "Отварить и размять с молоком.", 40, map[string]int{"картофель": 800, "молоко": 150, "соль": 1}},
	}

	created := make([]domain.Recipe, 0, len(recipes))
	for _, sr := range recipes {
		r := createRecipe(db, disk, log, users[sr.author].ID, sr, byName)
		created = append(created, r)
	}

	// ================== EDGES ==================
	log.Info().Msg("Creating subscriptions, favorites and carts...")
	db.Create(&[]domain.Subscription{
		{UserID: users[0].ID, AuthorID: users[1].ID},
		{UserID: users[0].ID, AuthorID: users[2].ID},
		{UserID: users[2].ID, AuthorID: users[0].ID},
	})
	for _, u := range users {
		r := created[rand.Intn(len(created))]
		db.Create(&domain.Favorite{UserID: u.ID, RecipeID: r.ID})
	}
	db.Create(&[]domain.ShoppingCart{
		{UserID: users[0].ID, RecipeID: created[0].ID},
		{UserID: users[0].ID, RecipeID: created[2].ID},
	})

	// ================== TOKENS ==================
	tokens := jwt.New(cfg.JWTSecret, cfg.JWTTTL)
	for _, u := range users {
		token, err := tokens.GenerateToken(u.ID)
		if err != nil {
			log.Fatal().Err(err).Msg("token")
		}
		log.Info().Str("user", u.Username).Int64("id", u.ID).Str("token", token).Msg("dev token")
	}

	log.Info().Msg("Seed completed!")
}

func createRecipe(db *gorm.DB, disk *storage.Disk, log zerolog.Logger, authorID int64, sr seedRecipe, byName map[string]int64) domain.Recipe {
	url, err := disk.Save(context.Background(), "recipes", placeholder())
	if err != nil {
		log.Fatal().Err(err).Msg("save placeholder image")
	}

	r := domain.Recipe{
		AuthorID:    authorID,
		Name:        sr.name,
		Text:        sr.text,
		Image:       url,
		CookingTime: sr.minutes,
	}
	if err := db.Omit(clause.Associations).Create(&r).Error; err != nil {
		log.Fatal().Err(err).Str("recipe", sr.name).Msg("create recipe")
	}

	for name, amount := range sr.lines {
		line := domain.RecipeIngredient{RecipeID: r.ID, IngredientID: byName[name], Amount: amount}
		if err := db.Omit(clause.Associations).Create(&line).Error; err != nil {
			log.Fatal().Err(err).Str("ingredient", name).Msg("create recipe line")
		}
	}
	return r
}

// placeholder returns a small solid-colour PNG.
func placeholder() *imagedata.Image {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	c := color.RGBA{R: uint8(rand.Intn(256)), G: uint8(rand.Intn(256)), B: uint8(rand.Intn(256)), A: 255}
	for x := 0; x < 64; x++ {
		for y := 0; y < 64; y++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return &imagedata.Image{Data: buf.Bytes(), MimeType: "image/png", Ext: ".png", Width: 64, Height: 64}
}
