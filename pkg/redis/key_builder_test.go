package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyBuilder_EnvironmentPrefix(t *testing.T) {
	tests := []struct {
		environment string
		wantPrefix  string
	}{
		{"production", "prod"},
		{"development", "staging"},
		{"staging", "staging"},
		{"test", "staging"},
		{"", "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			assert.Equal(t, tt.wantPrefix, kb.GetPrefix())
		})
	}
}

func TestKeyBuilder_ElectionKeys(t *testing.T) {
	kb := NewKeyBuilder("production")

	assert.Equal(t, "prod:election:candidates", kb.KeyCandidates())
	assert.Equal(t, "prod:election:voters", kb.KeyVoters())
	assert.Equal(t, "prod:election:admin_session", kb.KeyAdminSession())
}

func TestKeyBuilder_KeyCustom(t *testing.T) {
	kb := NewKeyBuilder("staging")
	assert.Equal(t, "staging:election:otp:a@b.com", kb.KeyCustom("election:otp:%s", "a@b.com"))
}
