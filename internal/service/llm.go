package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nutricoach/backend/internal/types"
)

// maxGenerationAttempts bounds the generate-validate retry loop.
const maxGenerationAttempts = 3

// candidateTTL is how long generated candidates stay cached for review.
const candidateTTL = 24 * time.Hour

// LLMService handles recipe generation through the DeepSeek API.
type LLMService struct {
	apiKey    string
	apiURL    string
	client    *http.Client
	redis     *redis.Client
	validator *RecipeValidator
	learner   *PreferenceLearner
}

// NewLLMService creates a new LLMService instance from environment
// configuration.
func NewLLMService(validator *RecipeValidator, learner *PreferenceLearner) (*LLMService, error) {
	apiKey := os.Getenv("DEEPSEEK_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("DEEPSEEK_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("DEEPSEEK_API_KEY or DEEPSEEK_API_KEY_FILE must be set")
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	apiURL := os.Getenv("DEEPSEEK_API_URL")
	if apiURL == "" {
		apiURL = "https://api.deepseek.com/v1/chat/completions"
	}

	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		redisHost = "localhost"
	}
	redisPort := os.Getenv("REDIS_PORT")
	if redisPort == "" {
		redisPort = "6379"
	}
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", redisHost, redisPort),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
	})

	return &LLMService{
		apiKey:    apiKey,
		apiURL:    apiURL,
		client:    &http.Client{},
		redis:     redisClient,
		validator: validator,
		learner:   learner,
	}, nil
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a request to the DeepSeek API
type Request struct {
	Model            string            `json:"model"`
	Messages         []Message         `json:"messages"`
	ResponseFormat   map[string]string `json:"response_format"`
	Temperature      float64           `json:"temperature"`
	TopP             float64           `json:"top_p"`
	FrequencyPenalty float64           `json:"frequency_penalty"`
	PresencePenalty  float64           `json:"presence_penalty"`
}

// RecipeCandidate is a generated recipe cached for review before the user
// accepts or rates it.
type RecipeCandidate struct {
	ID         string                  `json:"id"`
	UserID     string                  `json:"user_id"`
	Recipe     types.Recipe            `json:"recipe"`
	Validation *types.ValidationResult `json:"validation"`
	Attempts   int                     `json:"attempts"`
	CreatedAt  time.Time               `json:"created_at"`
}

const recipeSystemPrompt = `Eres un chef y nutricionista deportivo. Responde siempre en JSON con esta estructura exacta:
{
    "receta": {
        "name": "Nombre de la receta",
        "timing_category": "una de: pre_entreno, post_entreno, desayuno, almuerzo, snack, cena, comida_principal",
        "function_category": "función de la receta (por ejemplo: recuperación muscular)",
        "difficulty": 2,
        "prep_time_minutes": 25,
        "servings": 2,
        "ingredients": [
            {"name": "pechuga de pollo", "quantity": 200, "unit": "g", "category": "proteinas"}
        ],
        "steps": ["Paso 1...", "Paso 2...", "Paso 3..."],
        "macros": {"calories": 450, "protein_g": 35, "carbs_g": 45, "fat_g": 12, "fiber_g": 6},
        "meal_prep_tips": ["Se conserva 3 días en nevera"],
        "consumption_timing": "30-60 minutos después de entrenar"
    }
}

Usa solo ingredientes naturales sin procesar. Los campos numéricos deben ser números, no cadenas.
difficulty es un entero de 1 a 4. Los macros deben cuadrar con las calorías declaradas.`

// GenerateRecipe asks the LLM for one recipe and returns the raw response
// content. Learned preferences, when present, steer the prompt.
func (s *LLMService) GenerateRecipe(ctx context.Context, query, timingCategory string, prefs *types.BasePreferences, profile *types.IntelligenceProfile) (string, error) {
	prompt := "Genera una receta para: " + query
	if timingCategory != "" {
		prompt += fmt.Sprintf(". Momento de consumo: %s", timingCategory)
	}
	if prefs != nil {
		if len(prefs.Allergies) > 0 {
			prompt += ". Evita estrictamente: " + strings.Join(prefs.Allergies, ", ")
		}
		if len(prefs.CookingMethods) > 0 {
			prompt += ". Métodos de cocción preferidos: " + strings.Join(prefs.CookingMethods, ", ")
		}
	}
	if liked := topLikedIngredients(profile, 5); len(liked) > 0 {
		prompt += ". Al usuario le gustan especialmente: " + strings.Join(liked, ", ")
	}

	reqBody := Request{
		Model: "deepseek-chat",
		Messages: []Message{
			{Role: "system", Content: recipeSystemPrompt},
			{Role: "user", Content: prompt},
		},
		ResponseFormat:   map[string]string{"type": "json_object"},
		Temperature:      0.9,
		TopP:             0.9,
		FrequencyPenalty: 0.5,
		PresencePenalty:  0.5,
	}

	return s.chatCompletion(ctx, reqBody)
}

// GenerateValidatedRecipe runs the generate-validate loop: it requests
// candidates until one reaches the acceptability threshold or the attempt
// budget runs out, in which case the best-scoring candidate is returned
// together with ErrNoAcceptableRecipe.
func (s *LLMService) GenerateValidatedRecipe(ctx context.Context, userID uuid.UUID, query, timingCategory string, prefs *types.BasePreferences, profile *types.IntelligenceProfile) (*RecipeCandidate, error) {
	var best *RecipeCandidate

	for attempt := 1; attempt <= maxGenerationAttempts; attempt++ {
		content, err := s.GenerateRecipe(ctx, query, timingCategory, prefs, profile)
		if err != nil {
			return nil, err
		}

		recipe, err := ParseRecipeResponse(content)
		if err != nil {
			// Schema mismatch: retry with the remaining budget.
			continue
		}

		validation := s.validator.Validate(recipe)
		candidate := &RecipeCandidate{
			UserID:     userID.String(),
			Recipe:     *recipe,
			Validation: validation,
			Attempts:   attempt,
		}

		if best == nil || validation.OverallScore > best.Validation.OverallScore {
			best = candidate
		}
		if validation.IsValid {
			break
		}
	}

	if best == nil {
		return nil, ErrRecipeParse
	}

	if err := s.SaveCandidate(ctx, best); err != nil {
		return nil, err
	}

	if !best.Validation.IsValid {
		return best, ErrNoAcceptableRecipe
	}
	return best, nil
}

// ParseRecipeResponse parses LLM output as the receta/recetas schema. The
// first recipe wins when the response carries several. A response without a
// usable recipe structure returns ErrRecipeParse, never an empty recipe.
func ParseRecipeResponse(content string) (*types.Recipe, error) {
	var wrapper struct {
		Receta  *types.Recipe  `json:"receta"`
		Recetas []types.Recipe `json:"recetas"`
	}
	if err := json.Unmarshal([]byte(content), &wrapper); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecipeParse, err)
	}

	recipe := wrapper.Receta
	if recipe == nil && len(wrapper.Recetas) > 0 {
		recipe = &wrapper.Recetas[0]
	}
	if recipe == nil {
		// Some responses return the recipe object without the wrapper.
		var bare types.Recipe
		if err := json.Unmarshal([]byte(content), &bare); err == nil && bare.Name != "" {
			recipe = &bare
		}
	}
	if recipe == nil || recipe.Name == "" || len(recipe.Ingredients) == 0 {
		return nil, ErrRecipeParse
	}
	return recipe, nil
}

// EstimateMacros asks the LLM for an approximate macro breakdown when the
// generated recipe came back without one.
func (s *LLMService) EstimateMacros(ctx context.Context, ingredients []types.Ingredient) (*types.Macros, error) {
	lines := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		lines = append(lines, fmt.Sprintf("%s: %.0f %s", ing.Name, ing.Quantity, ing.Unit))
	}

	reqBody := Request{
		Model: "deepseek-chat",
		Messages: []Message{
			{
				Role:    "system",
				Content: `Eres un experto en nutrición. Responde solo con JSON: {"calories":0,"protein_g":0,"carbs_g":0,"fat_g":0,"fiber_g":0}`,
			},
			{
				Role:    "user",
				Content: "Calcula los macronutrientes aproximados de estos ingredientes:\n" + strings.Join(lines, "\n"),
			},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
	}

	content, err := s.chatCompletion(ctx, reqBody)
	if err != nil {
		return nil, err
	}

	var macros types.Macros
	if err := json.Unmarshal([]byte(content), &macros); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecipeParse, err)
	}
	return &macros, nil
}

// SaveCandidate caches a generated candidate in Redis.
func (s *LLMService) SaveCandidate(ctx context.Context, candidate *RecipeCandidate) error {
	if candidate.ID == "" {
		candidate.ID = uuid.New().String()
	}
	candidate.CreatedAt = time.Now()

	data, err := json.Marshal(candidate)
	if err != nil {
		return fmt.Errorf("failed to marshal candidate: %w", err)
	}

	key := fmt.Sprintf("recipe:candidate:%s", candidate.ID)
	if err := s.redis.Set(ctx, key, data, candidateTTL).Err(); err != nil {
		return fmt.Errorf("failed to save candidate to Redis: %w", err)
	}
	return nil
}

// GetCandidate retrieves a cached candidate from Redis.
func (s *LLMService) GetCandidate(ctx context.Context, id string) (*RecipeCandidate, error) {
	key := fmt.Sprintf("recipe:candidate:%s", id)
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate from Redis: %w", err)
	}

	var candidate RecipeCandidate
	if err := json.Unmarshal(data, &candidate); err != nil {
		return nil, fmt.Errorf("failed to unmarshal candidate: %w", err)
	}
	return &candidate, nil
}

// DeleteCandidate removes a cached candidate from Redis.
func (s *LLMService) DeleteCandidate(ctx context.Context, id string) error {
	key := fmt.Sprintf("recipe:candidate:%s", id)
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete candidate from Redis: %w", err)
	}
	return nil
}

// chatCompletion sends one chat request and returns the first choice content.
func (s *LLMService) chatCompletion(ctx context.Context, reqBody Request) (string, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	return result.Choices[0].Message.Content, nil
}

// topLikedIngredients returns the highest-affinity ingredient names, for
// prompt steering.
func topLikedIngredients(profile *types.IntelligenceProfile, limit int) []string {
	if profile == nil {
		return nil
	}
	type entry struct {
		name  string
		score float64
	}
	entries := make([]entry, 0, len(profile.Preferences.Ingredients))
	for name, score := range profile.Preferences.Ingredients {
		if score > 0 {
			entries = append(entries, entry{name, score})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].score > entries[j].score })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}
