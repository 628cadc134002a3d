package service

import (
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
)

// GenerateEmbedding returns a simple deterministic embedding for the given
// text. It counts total length, vowels and consonants, which is enough to
// order keyword-adjacent recipes without an external embedding provider.
func GenerateEmbedding(text string) pgvector.Vector {
	text = strings.ToLower(text)
	var vowels, consonants float32
	for _, r := range text {
		if strings.ContainsRune("aeiou", r) {
			vowels++
		} else if r >= 'a' && r <= 'z' {
			consonants++
		}
	}
	length := float32(len(text))
	return pgvector.NewVector([]float32{length, vowels, consonants})
}

// RecipeEmbeddingText flattens the searchable parts of a recipe into the
// string handed to GenerateEmbedding.
func RecipeEmbeddingText(name, timingCategory string, ingredientNames []string) string {
	parts := make([]string, 0, len(ingredientNames)+2)
	parts = append(parts, name, timingCategory)
	parts = append(parts, ingredientNames...)
	return strings.Join(parts, " ")
}
