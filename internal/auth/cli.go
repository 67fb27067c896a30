// internal/auth/cli.go
package auth

import (
	"os/exec"
	"strings"
)

// cliCommands lists the token commands of the provider CLIs we know.
var cliCommands = map[string][]string{
	"github": {"gh", "auth", "token"},
	"gitlab": {"glab", "config", "get", "token", "--host", "gitlab.com"},
}

// CLIToken asks the provider's CLI tool (gh or glab) for a token.
// Returns the token and true if successful, or empty string and false otherwise.
func CLIToken(provider string) (string, bool) {
	args, ok := cliCommands[provider]
	if !ok {
		return "", false
	}
	out, err := exec.Command(args[0], args[1:]...).Output()
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(out))
	if token == "" {
		return "", false
	}
	return token, true
}
