package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "空输入",
			input:    "",
			expected: "",
		},
		{
			name:     "小写化和空白折叠",
			input:    "Golang   Developer\n\n5 Years",
			expected: "golang developer 5 years",
		},
		{
			name:     "移除URL",
			input:    "see https://github.com/me/repo and www.example.com now",
			expected: "see and now",
		},
		{
			name:     "移除邮箱",
			input:    "contact me@example.com for details",
			expected: "contact for details",
		},
		{
			name:     "保留技术符号",
			input:    "C++ C# .NET CI/CD re-work v1.0",
			expected: "c++ c# .net ci/cd re-work v1.0",
		},
		{
			name:     "过滤白名单外字符",
			input:    "skills: go, rust & (sql)!",
			expected: "skills go rust sql",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"Plain Text",
		"Email a@b.c URL https://x.y  MIXED  case!!",
		"C++/C# developer — 10 años de experiencia",
	}
	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "normalize应当幂等: %q", input)
	}
}
