package store

import (
	"modelwatch/internal/platform/logger"
)

// Option adjusts a Store before its backends open
type Option func(*Store) error

// WithLogger routes backend logging, including the SQL trace, through log
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}
