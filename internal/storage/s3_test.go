package storage

import "testing"

func TestFullKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		key      string
		expected string
	}{
		{
			name:     "with_prefix",
			prefix:   "raw",
			key:      "netflix-events/2025-01-15/14/batch.json",
			expected: "raw/netflix-events/2025-01-15/14/batch.json",
		},
		{
			name:     "no_prefix",
			prefix:   "",
			key:      "netflix-events/2025-01-15/14/batch.json",
			expected: "netflix-events/2025-01-15/14/batch.json",
		},
		{
			name:     "trim_slashes",
			prefix:   "raw/",
			key:      "/netflix-events/batch.json",
			expected: "raw/netflix-events/batch.json",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client := &S3Client{config: S3Config{Bucket: "archive", Prefix: test.prefix}}
			actual := client.fullKey(test.key)
			if actual != test.expected {
				t.Fatalf("expected %q, got %q", test.expected, actual)
			}
		})
	}
}
