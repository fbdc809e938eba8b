// Package identity はIDプロバイダーのユーザーAPIクライアントを提供する。
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Profile はIDプロバイダーから取得したユーザー情報の公開プロジェクション。
// プロバイダーの生レコードはそのまま外部に返さず、この形に射影する。
// キャッシュも永続化もしない。
type Profile struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
	ImageURL  string
}

// ClientConfig はIDプロバイダークライアントの設定。
type ClientConfig struct {
	// APIBaseURL はプロバイダーのユーザーAPIのベースURL。
	// テスト時はhttptestサーバーのURLに差し替える。
	APIBaseURL string
	// APIKey はプロバイダーAPIの認証キー。
	APIKey string
	// Timeout はプロバイダー呼び出しのタイムアウト。
	Timeout time.Duration
}

// Client はIDプロバイダーのユーザーAPIを呼び出すクライアント。
type Client struct {
	config     ClientConfig
	httpClient *http.Client
}

// NewClient はClientを生成する。
func NewClient(config ClientConfig) *Client {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// providerUser はプロバイダーのユーザーエンドポイントのレスポンス。
type providerUser struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	ProfileImageURL string `json:"profile_image_url"`
}

// GetUser は指定subjectのユーザー情報を取得し、公開プロジェクションを返す。
// プロバイダーの失敗（接続・非2xx・解析失敗）はすべて単一のエラークラスとして返す。
func (c *Client) GetUser(ctx context.Context, subject string) (*Profile, error) {
	endpoint := fmt.Sprintf("%s/users/%s", c.config.APIBaseURL, url.PathEscape(subject))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user request returned status %d", resp.StatusCode)
	}

	var user providerUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}

	return &Profile{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		ImageURL:  user.ProfileImageURL,
	}, nil
}
