package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmgilman/go/treefs/core"
)

// TestFSType_String verifies FSType.String() returns correct string representations.
func TestFSType_String(t *testing.T) {
	tests := []struct {
		name     string
		fsType   core.FSType
		expected string
	}{
		{name: "Unknown", fsType: core.FSTypeUnknown, expected: "unknown"},
		{name: "Local", fsType: core.FSTypeLocal, expected: "local"},
		{name: "Memory", fsType: core.FSTypeMemory, expected: "memory"},
		{name: "Remote", fsType: core.FSTypeRemote, expected: "remote"},
		{name: "Invalid", fsType: core.FSType(999), expected: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.fsType.String())
		})
	}
}

// TestFSType_ZeroValue verifies the zero value is FSTypeUnknown.
func TestFSType_ZeroValue(t *testing.T) {
	var fsType core.FSType
	assert.Equal(t, core.FSTypeUnknown, fsType)
}
