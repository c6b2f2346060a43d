package apiclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{name: "message field", body: `{"message":"task not found"}`, expected: "task not found"},
		{name: "error string", body: `{"error":"bad input"}`, expected: "bad input"},
		{name: "nested error", body: `{"error":{"message":"nested"}}`, expected: "nested"},
		{name: "message wins", body: `{"message":"first","error":"second"}`, expected: "first"},
		{name: "no known field", body: `{"detail":"x"}`, expected: ""},
		{name: "not json", body: `<html></html>`, expected: ""},
		{name: "empty", body: ``, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errorMessage([]byte(tt.body)))
		})
	}
}

func TestIsSuccess(t *testing.T) {
	assert.True(t, isSuccess(200))
	assert.True(t, isSuccess(204))
	assert.False(t, isSuccess(199))
	assert.False(t, isSuccess(301))
	assert.False(t, isSuccess(401))
}
