package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("DefaultValues", func(t *testing.T) {
		t.Parallel()
		client := NewClient()

		assert.Equal(t, DefaultBaseURL, client.baseURL)
		assert.NotNil(t, client.httpClient)
		assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
		assert.Contains(t, client.userAgent, "satchel")
	})

	t.Run("WithBaseURL", func(t *testing.T) {
		t.Parallel()
		client := NewClient(WithBaseURL("https://custom.api.github.com/"))

		// Should trim trailing slash
		assert.Equal(t, "https://custom.api.github.com", client.baseURL)
	})

	t.Run("WithHTTPClient", func(t *testing.T) {
		t.Parallel()
		customClient := &http.Client{Timeout: 30 * time.Second}
		client := NewClient(WithHTTPClient(customClient))

		assert.Equal(t, customClient, client.httpClient)
	})

	t.Run("WithTimeout", func(t *testing.T) {
		t.Parallel()
		client := NewClient(WithTimeout(5 * time.Second))

		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("WithUserAgent", func(t *testing.T) {
		t.Parallel()
		client := NewClient(WithUserAgent("custom-agent/1.0"))

		assert.Equal(t, "custom-agent/1.0", client.userAgent)
	})
}

func TestValidateOwnerRepo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		owner       string
		repo        string
		expectedErr error
	}{
		{name: "ValidOwnerRepo", owner: "satchelwallet", repo: "satchel", expectedErr: nil},
		{name: "EmptyOwner", owner: "", repo: "satchel", expectedErr: ErrInvalidOwner},
		{name: "EmptyRepo", owner: "satchelwallet", repo: "", expectedErr: ErrInvalidRepo},
		{name: "BothEmpty", owner: "", repo: "", expectedErr: ErrInvalidOwner},
		{name: "OwnerWithSlash", owner: "../etc", repo: "passwd", expectedErr: ErrInvalidOwnerRepo},
		{name: "RepoWithSlash", owner: "valid", repo: "../etc/passwd", expectedErr: ErrInvalidOwnerRepo},
		{name: "OwnerStartsWithDot", owner: ".hidden", repo: "repo", expectedErr: ErrInvalidOwnerRepo},
		{name: "ValidWithHyphens", owner: "my-org", repo: "my-repo", expectedErr: nil},
		{name: "ValidWithDots", owner: "my.org", repo: "my.repo", expectedErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateOwnerRepo(tt.owner, tt.repo)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClientGetLatestRelease(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		mockResponse    string
		mockStatusCode  int
		expectedRelease *Release
		expectError     bool
		errorContains   string
	}{
		{
			name:           "ValidRelease",
			mockStatusCode: http.StatusOK,
			mockResponse: `{
				"tag_name": "v1.2.3",
				"name": "Release v1.2.3",
				"draft": false,
				"prerelease": false,
				"published_at": "2026-01-01T12:00:00Z",
				"body": "Bug fixes and improvements"
			}`,
			expectedRelease: &Release{
				TagName:     "v1.2.3",
				Name:        "Release v1.2.3",
				Draft:       false,
				Prerelease:  false,
				PublishedAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
				Body:        "Bug fixes and improvements",
			},
			expectError: false,
		},
		{
			name:           "InvalidJSON",
			mockStatusCode: http.StatusOK,
			mockResponse:   `{invalid json`,
			expectError:    true,
			errorContains:  "decoding response",
		},
		{
			name:           "NotFound",
			mockStatusCode: http.StatusNotFound,
			mockResponse:   `{"message": "Not Found"}`,
			expectError:    true,
			errorContains:  "GitHub API request failed",
		},
		{
			name:           "RateLimited",
			mockStatusCode: http.StatusForbidden,
			mockResponse:   `{"message": "API rate limit exceeded"}`,
			expectError:    true,
			errorContains:  "GitHub API request failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/repos/owner/repo/releases/latest", r.URL.Path)
				assert.Contains(t, r.Header.Get("User-Agent"), "satchel")
				assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))

				w.WriteHeader(tt.mockStatusCode)
				_, _ = w.Write([]byte(tt.mockResponse))
			}))
			defer server.Close()

			client := NewClient(WithBaseURL(server.URL))

			release, err := client.GetLatestRelease(context.Background(), "owner", "repo")

			if tt.expectError {
				require.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
				assert.Nil(t, release)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedRelease, release)
			}
		})
	}
}

func TestGetLatestReleaseInputValidation(t *testing.T) {
	t.Parallel()

	client := NewClient()
	ctx := context.Background()

	t.Run("EmptyOwner", func(t *testing.T) {
		t.Parallel()
		_, err := client.GetLatestRelease(ctx, "", "repo")
		assert.ErrorIs(t, err, ErrInvalidOwner)
	})

	t.Run("EmptyRepo", func(t *testing.T) {
		t.Parallel()
		_, err := client.GetLatestRelease(ctx, "owner", "")
		assert.ErrorIs(t, err, ErrInvalidRepo)
	})

	t.Run("InvalidOwner", func(t *testing.T) {
		t.Parallel()
		_, err := client.GetLatestRelease(ctx, "../malicious", "repo")
		assert.ErrorIs(t, err, ErrInvalidOwnerRepo)
	})
}

func TestGetLatestReleaseErrorBodyLimit(t *testing.T) {
	t.Parallel()

	largeBody := strings.Repeat("x", maxErrorBodySize*2)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(largeBody))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	_, err := client.GetLatestRelease(context.Background(), "owner", "repo")
	require.Error(t, err)

	// Error should be truncated to maxErrorBodySize
	assert.Less(t, len(err.Error()), len(largeBody))
}

func TestPackageLevelGetLatestRelease(t *testing.T) {
	t.Parallel()

	_, err := GetLatestRelease(context.Background(), "", "repo")
	assert.ErrorIs(t, err, ErrInvalidOwner)
}

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		v1       string
		v2       string
		expected int
	}{
		{name: "V1Greater", v1: "1.2.3", v2: "1.2.2", expected: 1},
		{name: "V2Greater", v1: "1.2.2", v2: "1.2.3", expected: -1},
		{name: "Equal", v1: "1.2.3", v2: "1.2.3", expected: 0},
		{name: "MajorVersionDifference", v1: "2.0.0", v2: "1.9.9", expected: 1},
		{name: "MinorVersionDifference", v1: "1.3.0", v2: "1.2.9", expected: 1},
		{name: "WithVPrefix", v1: "v1.2.3", v2: "v1.2.2", expected: 1},
		{name: "MixedVPrefix", v1: "v1.2.3", v2: "1.2.3", expected: 0},
		{name: "DevVersionVsRelease", v1: "dev", v2: "1.2.3", expected: -1},
		{name: "ReleaseVsDevVersion", v1: "1.2.3", v2: "dev", expected: 1},
		{name: "BothDevVersions", v1: "dev", v2: "dev", expected: 0},
		{name: "CommitHashVsRelease", v1: "abc123def456", v2: "1.2.3", expected: -1},
		{name: "EmptyVersionVsRelease", v1: "", v2: "1.2.3", expected: -1},
		{name: "VersionWithSuffix", v1: "1.2.3-rc1", v2: "1.2.3", expected: 0},
		{name: "TwoPartVersion", v1: "1.2", v2: "1.2.0", expected: 0},
		{name: "PureNumericSevenDigitIsVersion", v1: "1234567", v2: "1.0.0", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, Compare(tt.v1, tt.v2))
		})
	}
}

func TestIsNewer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		currentVersion string
		latestVersion  string
		expected       bool
	}{
		{name: "NewerAvailable", currentVersion: "1.2.2", latestVersion: "1.2.3", expected: true},
		{name: "SameVersion", currentVersion: "1.2.3", latestVersion: "1.2.3", expected: false},
		{name: "CurrentNewer", currentVersion: "1.2.4", latestVersion: "1.2.3", expected: false},
		{name: "DevVersionNeedsUpgrade", currentVersion: "dev", latestVersion: "1.2.3", expected: true},
		{name: "CommitHashNeedsUpgrade", currentVersion: "abc123def456", latestVersion: "1.2.3", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, IsNewer(tt.currentVersion, tt.latestVersion))
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		version  string
		expected string
	}{
		{name: "PlainVersion", version: "1.2.3", expected: "1.2.3"},
		{name: "VPrefix", version: "v1.2.3", expected: "1.2.3"},
		{name: "Whitespace", version: "  v1.2.3  ", expected: "1.2.3"},
		{name: "ReleaseCandidate", version: "1.2.3-rc1", expected: "1.2.3"},
		{name: "DirtySuffix", version: "v1.2.3-dirty", expected: "1.2.3"},
		{name: "BuildMetadata", version: "1.2.3+build42", expected: "1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, Normalize(tt.version))
		})
	}
}

func TestIsDevBuild(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		version  string
		expected bool
	}{
		{name: "Empty", version: "", expected: true},
		{name: "DevLiteral", version: "dev", expected: true},
		{name: "ShortCommitHash", version: "abc1234", expected: true},
		{name: "FullCommitHash", version: "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2", expected: true},
		{name: "DirtyCommitHash", version: "abc1234-dirty", expected: true},
		{name: "Release", version: "1.2.3", expected: false},
		{name: "ReleaseWithPrefix", version: "v1.2.3", expected: false},
		{name: "PureNumeric", version: "1234567", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, IsDevBuild(tt.version))
		})
	}
}
