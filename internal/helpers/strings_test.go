package helpers_test

import (
	"strings"
	"testing"

	"github.com/isometry/ask-relay/internal/helpers"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	testCases := []struct {
		Name     string
		Input    string
		Limit    int
		Expected string
	}{
		{
			Name:     "shorter_than_limit",
			Input:    "hello",
			Limit:    10,
			Expected: "hello",
		},
		{
			Name:     "exact_limit",
			Input:    "hello",
			Limit:    5,
			Expected: "hello",
		},
		{
			Name:     "longer_than_limit",
			Input:    "hello world",
			Limit:    5,
			Expected: "hello",
		},
		{
			Name:     "multibyte_runes",
			Input:    "你好世界",
			Limit:    2,
			Expected: "你好",
		},
		{
			Name:     "zero_limit",
			Input:    "hello",
			Limit:    0,
			Expected: "",
		},
		{
			Name:     "negative_limit",
			Input:    "hello",
			Limit:    -1,
			Expected: "hello",
		},
		{
			Name:     "long_prompt",
			Input:    strings.Repeat("a", 4001),
			Limit:    4000,
			Expected: strings.Repeat("a", 4000),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, helpers.Truncate(tc.Input, tc.Limit))
		})
	}
}

func TestRedact(t *testing.T) {
	testCases := []struct {
		Name     string
		Input    string
		Secrets  []string
		Expected string
	}{
		{
			Name:     "no_secrets",
			Input:    "openai HTTP 500: boom",
			Expected: "openai HTTP 500: boom",
		},
		{
			Name:     "secret_present",
			Input:    "Post \"https://oapi.dingtalk.com/robot/send?access_token=abc\": timeout",
			Secrets:  []string{"https://oapi.dingtalk.com/robot/send?access_token=abc"},
			Expected: "Post \"***\": timeout",
		},
		{
			Name:     "empty_secret_ignored",
			Input:    "value",
			Secrets:  []string{"", "sk-1"},
			Expected: "value",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, helpers.Redact(tc.Input, tc.Secrets...))
		})
	}
}
