package backend

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/backlog/internal/domain"
	"golang.org/x/term"
)

const (
	authTimeout = 30 * time.Second
)

// Auth implements domain.Authenticator against /auth/login and /auth/register
type Auth struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewAuth creates a new authenticator for the server at baseURL
func NewAuth(baseURL string, logger *slog.Logger) *Auth {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auth{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: authTimeout,
		},
		logger: logger,
	}
}

// Authenticate exchanges credentials for a bearer token. The server answers
// with the token as plain body text.
func (a *Auth) Authenticate(ctx context.Context, mode domain.AuthMode, creds domain.Credentials) (string, error) {
	bodyBytes, err := json.Marshal(creds)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	reqURL := a.baseURL + "/auth/" + mode.String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDKey, requestID)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Error("auth request failed", "mode", mode, "error", err, "requestID", requestID)
		return "", domain.ErrServerOffline
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.logger.Warn("auth refused", "mode", mode, "status", resp.StatusCode, "requestID", requestID)
		return "", domain.ErrInvalidCredentials
	}

	token := strings.Trim(strings.TrimSpace(string(respBody)), `"`)
	if token == "" {
		a.logger.Warn("auth returned empty token", "mode", mode, "requestID", requestID)
		return "", domain.ErrInvalidCredentials
	}

	a.logger.Info("authenticated", "mode", mode, "username", creds.Username)
	return token, nil
}

// PromptCredentials asks for a username and a hidden password on the terminal
func PromptCredentials(mode domain.AuthMode) (domain.Credentials, error) {
	title := "Log in"
	if mode == domain.AuthRegister {
		title = "Create an account"
	}

	fmt.Println()
	fmt.Println(title)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━")

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Username: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("failed to read username: %w", err)
	}

	// Prompt for password (hidden input)
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println() // Add newline after hidden input

	return domain.Credentials{
		Username: strings.TrimSpace(username),
		Password: string(passwordBytes),
	}, nil
}

// PromptForServerURL prompts the user to enter the backlog server URL
func PromptForServerURL() (string, error) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Enter your backlog server URL (e.g., http://localhost:8080): ")
	url, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(url), nil
}
