package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fastygo/onboarding/internal/config"
)

func TestDSN(t *testing.T) {
	t.Run("url wins", func(t *testing.T) {
		cfg := config.DatabaseConfig{URL: "postgres://x/y", Host: "ignored"}
		assert.Equal(t, "postgres://x/y", DSN(cfg))
	})

	t.Run("assembled and escaped", func(t *testing.T) {
		cfg := config.DatabaseConfig{
			Host:     "db",
			Port:     "5432",
			Name:     "onboarding",
			User:     "app",
			Password: "p@ss/word",
		}
		assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/onboarding?sslmode=disable", DSN(cfg))
	})
}
