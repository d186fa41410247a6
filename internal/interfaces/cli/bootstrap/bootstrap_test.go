package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGinMode(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"production", "release"},
		{"prod", "release"},
		{"release", "release"},
		{"test", "test"},
		{"testing", "test"},
		{"development", "debug"},
		{"dev", "debug"},
		{"", "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, GinMode(tt.env))
		})
	}
}

func TestEnvironment(t *testing.T) {
	t.Setenv("ENV", "")
	assert.Equal(t, "development", Environment("development"))

	t.Setenv("ENV", "production")
	assert.Equal(t, "production", Environment("development"))
}
