package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncRecord_IsNewerThan(t *testing.T) {
	tests := []struct {
		other    *SyncRecord
		self     *SyncRecord
		name     string
		expected bool
	}{
		{
			name:     "self timestamp greater",
			self:     &SyncRecord{Timestamp: 101, Version: 1, DeviceID: "devA"},
			other:    &SyncRecord{Timestamp: 100, Version: 9, DeviceID: "devA"},
			expected: true,
		},
		{
			name:     "self timestamp smaller",
			self:     &SyncRecord{Timestamp: 90, Version: 9, DeviceID: "devA"},
			other:    &SyncRecord{Timestamp: 100, Version: 1, DeviceID: "devA"},
			expected: false,
		},
		{
			name:     "timestamps equal, self version greater",
			self:     &SyncRecord{Timestamp: 100, Version: 3, DeviceID: "devA"},
			other:    &SyncRecord{Timestamp: 100, Version: 2, DeviceID: "devB"},
			expected: true,
		},
		{
			name:     "timestamps equal, self version smaller",
			self:     &SyncRecord{Timestamp: 100, Version: 2, DeviceID: "devB"},
			other:    &SyncRecord{Timestamp: 100, Version: 3, DeviceID: "devA"},
			expected: false,
		},
		{
			name:     "timestamps and versions equal, self DeviceID greater lex",
			self:     &SyncRecord{Timestamp: 100, Version: 2, DeviceID: "devB"},
			other:    &SyncRecord{Timestamp: 100, Version: 2, DeviceID: "devA"},
			expected: true,
		},
		{
			name:     "timestamps and versions equal, self DeviceID lower lex",
			self:     &SyncRecord{Timestamp: 100, Version: 2, DeviceID: "devA"},
			other:    &SyncRecord{Timestamp: 100, Version: 2, DeviceID: "devB"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.self.IsNewerThan(tt.other)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSyncRecord_Clone(t *testing.T) {
	original := &SyncRecord{
		ID:        RecordID(RecordTypeCartItems, "user-1"),
		UserID:    "user-1",
		Type:      RecordTypeCartItems,
		DeviceID:  "device-1",
		Platform:  PlatformIOS,
		Data:      json.RawMessage(`[{"product_id":"p1","quantity":2}]`),
		Timestamp: 123456,
		Version:   42,
	}

	clone := original.Clone()

	assert.Equal(t, original.ID, clone.ID)
	assert.Equal(t, original.UserID, clone.UserID)
	assert.Equal(t, original.Type, clone.Type)
	assert.Equal(t, original.DeviceID, clone.DeviceID)
	assert.Equal(t, original.Platform, clone.Platform)
	assert.Equal(t, original.Timestamp, clone.Timestamp)
	assert.Equal(t, original.Version, clone.Version)
	assert.Equal(t, original.Data, clone.Data)

	// Модификация оригинала не должна влиять на клон
	original.Data[0] = 'x'
	assert.NotEqual(t, original.Data[0], clone.Data[0])
}

func TestRecordID(t *testing.T) {
	assert.Equal(t, "cart_items:user-1", RecordID(RecordTypeCartItems, "user-1"))
	assert.Equal(t, "user_preferences:u2", RecordID(RecordTypeUserPreferences, "u2"))
}

func TestRecordType_Valid(t *testing.T) {
	for _, rt := range KnownRecordTypes() {
		assert.True(t, rt.Valid(), string(rt))
	}
	assert.False(t, RecordType("").Valid())
	assert.False(t, RecordType("orders").Valid())
}
