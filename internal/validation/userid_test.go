package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
)

func TestValidateUserID(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid - lowercase login",
			userID:  "alice",
			wantErr: false,
		},
		{
			name:    "valid - mixed case with numbers",
			userID:  "Alice123",
			wantErr: false,
		},
		{
			name:    "valid - with underscore and dot",
			userID:  "alice.smith_2",
			wantErr: false,
		},
		{
			name:    "valid - with hyphen",
			userID:  "manual-user",
			wantErr: false,
		},
		{
			name:    "valid - uuid",
			userID:  uuid.NewString(),
			wantErr: false,
		},
		{
			name:    "valid - min length",
			userID:  "u1",
			wantErr: false,
		},
		{
			name:    "valid - max length",
			userID:  strings.Repeat("a", 64),
			wantErr: false,
		},
		{
			name:    "invalid - empty",
			userID:  "",
			wantErr: true,
			errMsg:  "user id cannot be empty",
		},
		{
			name:    "invalid - too short (1 char)",
			userID:  "u",
			wantErr: true,
			errMsg:  "must be at least 2 characters",
		},
		{
			name:    "invalid - too long (65 chars)",
			userID:  strings.Repeat("a", 65),
			wantErr: true,
			errMsg:  "must not exceed 64 characters",
		},
		{
			name:    "invalid - with space",
			userID:  "alice smith",
			wantErr: true,
			errMsg:  "can only contain letters",
		},
		{
			name:    "invalid - with @ symbol",
			userID:  "alice@example.com",
			wantErr: true,
			errMsg:  "can only contain letters",
		},
		{
			name:    "invalid - with slash",
			userID:  "alice/../admin",
			wantErr: true,
			errMsg:  "can only contain letters",
		},
		{
			name:    "invalid - cyrillic characters",
			userID:  "алиса",
			wantErr: true,
			errMsg:  "can only contain letters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUserID(tt.userID)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
