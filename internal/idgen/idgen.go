package idgen

import (
	"github.com/google/uuid"
)

// ID prefixes for different models
const (
	PrefixProfile  = "prof_"
	PrefixActivity = "act_"
)

// NewProfile generates a new profile ID with prof_ prefix
func NewProfile() string {
	return PrefixProfile + uuid.New().String()
}

// NewActivity generates a new live activity ID with act_ prefix
func NewActivity() string {
	return PrefixActivity + uuid.New().String()
}

// New generates a generic UUID without prefix (request IDs)
func New() string {
	return uuid.New().String()
}
