package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackReply(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"about", "Tell me ABOUT Brenda", "AppSec Engineer"},
		{"services", "what services do you offer", "TamperTantrum Labs"},
		{"contact", "how do I contact her", "hensley.brenda@protonmail.com"},
		{"generic", "what is the weather", "technical difficulties"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, FallbackReply(tt.message), tt.want)
		})
	}
}
