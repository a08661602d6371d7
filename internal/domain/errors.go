package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product cannot be located in the catalog
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNotEnoughProducts is returned when a comparison needs more products than given
	ErrNotEnoughProducts = errors.New("need at least 2 products to compare")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrFoodFactsAPIFailure is returned when an Open Food Facts request fails
	ErrFoodFactsAPIFailure = errors.New("open food facts API request failed")
)
