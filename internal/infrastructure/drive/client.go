// Package drive accesses Google Drive folders through the OAuth2 flow used
// by the desktop credentials file.
package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

var folderURLPattern = regexp.MustCompile(`/folders/([A-Za-z0-9_-]+)`)

// ExtractFolderID pulls the folder id out of a Drive folder URL. Plain ids
// pass through unchanged.
func ExtractFolderID(s string) string {
	s = strings.TrimSpace(s)
	if m := folderURLPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	return s
}

// File describes one Drive file
type File struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// Client wraps the Drive API with file-based OAuth2 credentials
type Client struct {
	credentialsFile string
	tokenFile       string
	logger          *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithDriveLogger sets the logger
func WithDriveLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client reading OAuth2 client credentials and the saved
// token from the given files.
func NewClient(credentialsFile, tokenFile string, opts ...Option) *Client {
	c := &Client{
		credentialsFile: credentialsFile,
		tokenFile:       tokenFile,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) oauthConfig() (*oauth2.Config, error) {
	b, err := os.ReadFile(c.credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth credentials: %w", err)
	}
	cfg, err := google.ConfigFromJSON(b, gdrive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse oauth credentials: %w", err)
	}
	return cfg, nil
}

func (c *Client) loadToken() (*oauth2.Token, error) {
	b, err := os.ReadFile(c.tokenFile)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, fmt.Errorf("parse saved token: %w", err)
	}
	return &tok, nil
}

// Connected reports whether both credentials and a saved token are present
func (c *Client) Connected() bool {
	if _, err := c.oauthConfig(); err != nil {
		return false
	}
	_, err := c.loadToken()
	return err == nil
}

// AuthURL returns the consent URL the operator visits to authorize access
func (c *Client) AuthURL() (string, error) {
	cfg, err := c.oauthConfig()
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline), nil
}

// Exchange trades an authorization code for a token and saves it for reuse
func (c *Client) Exchange(ctx context.Context, code string) error {
	cfg, err := c.oauthConfig()
	if err != nil {
		return err
	}
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}
	b, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.tokenFile, b, 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	c.logger.Info("Drive authorization saved", zap.String("token_file", c.tokenFile))
	return nil
}

func (c *Client) service(ctx context.Context) (*gdrive.Service, error) {
	cfg, err := c.oauthConfig()
	if err != nil {
		return nil, err
	}
	tok, err := c.loadToken()
	if err != nil {
		return nil, fmt.Errorf("load saved token (run the connect flow first): %w", err)
	}
	return gdrive.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, tok)))
}

// FolderName returns the display name of a folder
func (c *Client) FolderName(ctx context.Context, folderID string) (string, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return "", err
	}
	f, err := svc.Files.Get(folderID).Fields("name").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("fetch folder %s: %w", folderID, err)
	}
	return f.Name, nil
}

// FileInfo returns the metadata for a single file
func (c *Client) FileInfo(ctx context.Context, fileID string) (*File, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	f, err := svc.Files.Get(fileID).Fields("id", "name", "mimeType", "size").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch file %s: %w", fileID, err)
	}
	return &File{ID: f.Id, Name: f.Name, MimeType: f.MimeType, Size: f.Size}, nil
}

// ListImages returns the image files directly inside a folder
func (c *Client) ListImages(ctx context.Context, folderID string) ([]File, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("'%s' in parents and trashed = false and mimeType contains 'image/'", folderID)
	var files []File
	pageToken := ""
	for {
		call := svc.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType, size)").
			PageSize(100).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		res, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list folder %s: %w", folderID, err)
		}
		for _, f := range res.Files {
			files = append(files, File{ID: f.Id, Name: f.Name, MimeType: f.MimeType, Size: f.Size})
		}
		pageToken = res.NextPageToken
		if pageToken == "" {
			return files, nil
		}
	}
}

// Download fetches the content of one file
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	res, err := svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", fileID, err)
	}
	defer res.Body.Close()
	return io.ReadAll(res.Body)
}
