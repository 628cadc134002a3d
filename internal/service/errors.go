package service

import "errors"

var (
	// ErrRecipeParse marks an LLM response that did not match the expected
	// receta/recetas JSON schema. Callers use it to trigger regeneration
	// instead of accepting a defaulted empty recipe.
	ErrRecipeParse = errors.New("la respuesta no contiene una receta válida")

	// ErrNoAcceptableRecipe marks a generation run in which no candidate
	// reached the acceptability threshold.
	ErrNoAcceptableRecipe = errors.New("ninguna receta generada alcanzó la puntuación mínima")

	// ErrProfileNotFound marks a missing user profile record.
	ErrProfileNotFound = errors.New("profile not found")
)
