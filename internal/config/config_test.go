package config

import (
	"errors"
	"testing"
	"time"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"empty engine", func(c *Config) { c.DefaultEngine = "" }, ErrInvalidDefaultEngine},
		{"empty shell", func(c *Config) { c.DefaultShell = "" }, ErrInvalidDefaultShell},
		{"negative timeout", func(c *Config) { c.StatTimeout = -time.Second }, ErrInvalidStatTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClone_Independence(t *testing.T) {
	c := Default()
	clone := c.Clone()
	clone.DefaultEngine = "simple"
	if c.DefaultEngine == "simple" {
		t.Fatalf("mutating clone affected original")
	}
}
