package config

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

func structValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New()
	})
	return validatorInst
}

// Validate checks raw's structural shape (required fields, enum values,
// non-negative numbers) before Resolve attempts to merge and resolve it.
// It does not check cross-references like group-set names or dependency
// targets; those surface as typed errors from Resolve and depgraph.Build
// respectively.
func Validate(raw *RawConfig) error {
	if err := structValidator().Struct(raw); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}
