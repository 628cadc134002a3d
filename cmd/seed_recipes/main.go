package main

import (
	"context"
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nutricoach/backend/config"
	"github.com/nutricoach/backend/internal/database"
	"github.com/nutricoach/backend/internal/models"
	"github.com/nutricoach/backend/internal/service"
	"github.com/nutricoach/backend/internal/types"
)

const (
	seedEmail    = "demo@nutricoach.local"
	seedPassword = "demo-password"
	seedUsername = "demo"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	if _, err := authService.Register("Demo", seedEmail, seedPassword, seedUsername); err != nil && err != service.ErrUserExists {
		log.Fatalf("Failed to create demo user: %v", err)
	}

	var user models.User
	if err := db.Where("email = ?", seedEmail).First(&user).Error; err != nil {
		log.Fatalf("Failed to load demo user: %v", err)
	}

	tax := service.DefaultTaxonomy()
	recipeService := service.NewRecipeService(db, service.NewRecipeValidator(tax), service.NewPreferenceLearner(tax))

	ctx := context.Background()
	for _, recipe := range starterRecipes() {
		var count int64
		db.Model(&models.Recipe{}).Where("user_id = ? AND name = ?", user.ID, recipe.Name).Count(&count)
		if count > 0 {
			log.Printf("Skipping %q (already seeded)", recipe.Name)
			continue
		}

		row, validation, err := recipeService.CreateRecipe(ctx, user.ID, recipe)
		if err != nil {
			log.Fatalf("Failed to seed %q: %v", recipe.Name, err)
		}
		log.Printf("Seeded %q (score %d, valid=%v)", row.Name, validation.OverallScore, validation.IsValid)
	}
}

func starterRecipes() []*types.Recipe {
	return []*types.Recipe{
		{
			Name:            "Pollo al horno con boniato",
			TimingCategory:  types.TimingPostWorkout,
			Difficulty:      2,
			PrepTimeMinutes: 35,
			Servings:        2,
			Ingredients: []types.Ingredient{
				{Name: "pechuga de pollo", Quantity: 250, Unit: "g", Category: "proteinas"},
				{Name: "boniato", Quantity: 300, Unit: "g", Category: "carbohidratos"},
				{Name: "brocoli", Quantity: 150, Unit: "g", Category: "verduras"},
				{Name: "aceite de oliva", Quantity: 15, Unit: "ml", Category: "grasas"},
			},
			Steps: []string{
				"Precalentar el horno a 200 grados",
				"Cortar el boniato en dados y hornear 20 minutos",
				"Añadir el pollo y el brócoli y hornear 15 minutos más",
			},
			Macros:            types.Macros{Calories: 480, Protein: 45, Carbs: 48, Fat: 12, Fiber: 9},
			MealPrepTips:      []string{"Aguanta 3 días en nevera", "Congela en raciones individuales"},
			ConsumptionTiming: "30-60 minutos después de entrenar",
		},
		{
			Name:            "Avena con claras y plátano",
			TimingCategory:  types.TimingPreWorkout,
			Difficulty:      1,
			PrepTimeMinutes: 10,
			Servings:        1,
			Ingredients: []types.Ingredient{
				{Name: "avena", Quantity: 60, Unit: "g", Category: "carbohidratos"},
				{Name: "clara de huevo", Quantity: 100, Unit: "ml", Category: "proteinas"},
				{Name: "platano", Quantity: 1, Unit: "unidad", Category: "frutas"},
			},
			Steps: []string{
				"Cocer la avena con agua",
				"Incorporar las claras sin dejar de remover",
				"Servir con el plátano en rodajas",
			},
			Macros:            types.Macros{Calories: 330, Protein: 16, Carbs: 55, Fat: 4, Fiber: 6},
			MealPrepTips:      []string{"Prepara la base la noche anterior"},
			ConsumptionTiming: "60-90 minutos antes de entrenar",
		},
		{
			Name:            "Salmón a la plancha con quinoa",
			TimingCategory:  types.TimingDinner,
			Difficulty:      2,
			PrepTimeMinutes: 25,
			Servings:        2,
			Ingredients: []types.Ingredient{
				{Name: "salmon", Quantity: 220, Unit: "g", Category: "proteinas"},
				{Name: "quinoa", Quantity: 120, Unit: "g", Category: "carbohidratos"},
				{Name: "espinacas", Quantity: 100, Unit: "g", Category: "verduras"},
				{Name: "aceite de oliva", Quantity: 10, Unit: "ml", Category: "grasas"},
			},
			Steps: []string{
				"Cocer la quinoa 15 minutos",
				"Hacer el salmón a la plancha 4 minutos por cada lado",
				"Saltear las espinacas y emplatar",
			},
			Macros:            types.Macros{Calories: 520, Protein: 38, Carbs: 42, Fat: 20, Fiber: 8},
			MealPrepTips:      []string{"La quinoa aguanta 4 días en nevera", "Cocina el salmón el mismo día"},
			ConsumptionTiming: "cena",
		},
	}
}
