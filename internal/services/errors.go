package services

import "errors"

// Service errors
var (
	ErrDatasetNotLoaded = errors.New("dataset not loaded")
	ErrUnknownDimension = errors.New("unknown dimension")
	ErrInvalidInput     = errors.New("invalid input")
)
