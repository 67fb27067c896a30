// internal/auth/credentials.go
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

var ErrNoCredentials = errors.New("no credentials found")

type Credentials struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username,omitempty"`
}

type FileStore struct {
	path string
	// cliToken is the last-resort lookup; nil disables it.
	cliToken func(provider string) (string, bool)
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, cliToken: CLIToken}
}

// WithoutCLI disables the gh/glab fallback.
func (s *FileStore) WithoutCLI() *FileStore {
	s.cliToken = nil
	return s
}

func DefaultStorePath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "reposcope", "credentials.json")
}

// ProviderForURL names the hosting provider of a clone URL: "github",
// "gitlab", "bitbucket", or the bare host for anything else. Local paths
// and unparsable URLs yield "".
func ProviderForURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case host == "github.com" || strings.HasSuffix(host, ".github.com"):
		return "github"
	case host == "gitlab.com" || strings.HasPrefix(host, "gitlab."):
		return "gitlab"
	case host == "bitbucket.org" || strings.HasPrefix(host, "bitbucket."):
		return "bitbucket"
	default:
		return host
	}
}

func (s *FileStore) Save(provider string, cred Credentials) error {
	all, _ := s.loadAll()
	if all == nil {
		all = make(map[string]Credentials)
	}
	all[provider] = cred

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func (s *FileStore) Load(provider string) (Credentials, error) {
	all, err := s.loadAll()
	if err != nil {
		return Credentials{}, ErrNoCredentials
	}
	cred, ok := all[provider]
	if !ok {
		return Credentials{}, ErrNoCredentials
	}
	return cred, nil
}

// LoadWithEnv resolves credentials from REPOSCOPE_<PROVIDER>_TOKEN, then the
// credentials file, then the provider's CLI.
func (s *FileStore) LoadWithEnv(provider string) (Credentials, error) {
	envKey := fmt.Sprintf("REPOSCOPE_%s_TOKEN", toUpperSnake(provider))
	if token := os.Getenv(envKey); token != "" {
		cred := Credentials{AccessToken: token}
		userKey := fmt.Sprintf("REPOSCOPE_%s_USERNAME", toUpperSnake(provider))
		cred.Username = os.Getenv(userKey)
		return cred, nil
	}
	cred, err := s.Load(provider)
	if err == nil {
		return cred, nil
	}
	if s.cliToken != nil {
		if token, ok := s.cliToken(provider); ok {
			return Credentials{AccessToken: token}, nil
		}
	}
	return Credentials{}, ErrNoCredentials
}

// CredentialsFor returns the username and access token to clone rawURL
// with. An empty token means anonymous access.
func (s *FileStore) CredentialsFor(rawURL string) (username, token string) {
	provider := ProviderForURL(rawURL)
	if provider == "" {
		return "", ""
	}
	cred, err := s.LoadWithEnv(provider)
	if err != nil {
		return "", ""
	}
	return cred.Username, cred.AccessToken
}

func (s *FileStore) loadAll() (map[string]Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var all map[string]Credentials
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	return all, nil
}

// toUpperSnake upper-cases provider and replaces anything that is not a
// letter or digit with an underscore, so hosts like "git.example.com"
// become GIT_EXAMPLE_COM.
func toUpperSnake(s string) string {
	result := make([]byte, 0, len(s))
	for i := range len(s) {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			c -= 32
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		default:
			c = '_'
		}
		result = append(result, c)
	}
	return string(result)
}
