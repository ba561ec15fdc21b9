package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidConfig      = goerr.New("invalid configuration")
	ErrVocabularyNotFound = goerr.New("vocabulary file not found")
	ErrUnknownCategory    = goerr.New("unknown category in vocabulary")
	ErrUnknownDomain      = goerr.New("unknown domain in vocabulary")
)
