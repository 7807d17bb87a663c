package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAppBuildInfo(t *testing.T) {
	info := NewAppBuildInfo("v1.2.0", "2026-10-01", "abc123")

	assert.Equal(t, "v1.2.0", info.BuildVersion())
	assert.Equal(t, "2026-10-01", info.BuildDate())
	assert.Equal(t, "abc123", info.BuildCommit())
}

func TestAppBuildInfo_MissingValuesAreNotAvailable(t *testing.T) {
	for name, info := range map[string]AppBuildInfo{
		"constructed": NewAppBuildInfo("", "", ""),
		"zero value":  {},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, "N/A", info.BuildVersion())
			assert.Equal(t, "N/A", info.BuildDate())
			assert.Equal(t, "N/A", info.BuildCommit())
		})
	}
}

func TestAppBuildInfo_Response(t *testing.T) {
	resp := NewAppBuildInfo("v1.2.0", "", "abc123").Response("1.2")

	assert.Equal(t, BuildInfoResponse{
		Version:      "1.2",
		BuildVersion: "v1.2.0",
		BuildDate:    "N/A",
		BuildCommit:  "abc123",
	}, resp)
}
