package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"MEORank-App/internal/domain/model"
)

const (
	githubAPIBaseURL = "https://api.github.com"
	githubRawBaseURL = "https://raw.githubusercontent.com"
	publishBranch    = "main"
)

// GitHubPublisher は結果JSONをGitHubリポジトリのdata/配下にコミットして公開する実装
type GitHubPublisher struct {
	token      string
	repo       string // "owner/repo"形式
	apiBaseURL string
	rawBaseURL string
	httpClient *http.Client
}

// NewGitHubPublisher は新しいパブリッシャーを生成する
func NewGitHubPublisher(token, repo string) *GitHubPublisher {
	return &GitHubPublisher{
		token:      token,
		repo:       repo,
		apiBaseURL: githubAPIBaseURL,
		rawBaseURL: githubRawBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewGitHubPublisherWithBaseURL は接続先を指定してパブリッシャーを生成する（テスト用）
func NewGitHubPublisherWithBaseURL(token, repo, apiBaseURL, rawBaseURL string) *GitHubPublisher {
	publisher := NewGitHubPublisher(token, repo)
	publisher.apiBaseURL = apiBaseURL
	publisher.rawBaseURL = rawBaseURL
	return publisher
}

// PublishResult は結果ドキュメントをJSONファイルとしてコミットし、rawコンテンツのURLを返す
// 同名ファイルが既にある場合はshaを取得して上書き更新する
func (g *GitHubPublisher) PublishResult(ctx context.Context, filename string, doc *model.AnalysisResultDocument) (string, error) {
	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("結果JSONの生成に失敗: %w", err)
	}

	// 既存ファイルのshaを取得（新規作成の場合は空のまま）
	sha, err := g.fetchExistingSHA(ctx, filename)
	if err != nil {
		return "", fmt.Errorf("既存ファイルの確認に失敗: %w", err)
	}

	payload := githubPutRequest{
		Message: fmt.Sprintf("Add analysis data: %s", filename),
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  publishBranch,
		SHA:     sha,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("リクエストボディの構築に失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "PUT", g.contentURL(filename), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("リクエストの作成に失敗: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("GitHub APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("GitHub APIからエラーステータスが返されました: %s", resp.Status)
	}

	return fmt.Sprintf("%s/%s/%s/data/%s", g.rawBaseURL, g.repo, publishBranch, filename), nil
}

// fetchExistingSHA は同名ファイルが存在する場合にそのshaを返す（無ければ空文字列）
func (g *GitHubPublisher) fetchExistingSHA(ctx context.Context, filename string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", g.contentURL(filename), nil)
	if err != nil {
		return "", fmt.Errorf("リクエストの作成に失敗: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("GitHub APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil
	}

	var content githubContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return "", fmt.Errorf("JSONのパースに失敗: %w", err)
	}
	return content.SHA, nil
}

func (g *GitHubPublisher) contentURL(filename string) string {
	return fmt.Sprintf("%s/repos/%s/contents/data/%s", g.apiBaseURL, g.repo, filename)
}

func (g *GitHubPublisher) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("token %s", g.token))
	req.Header.Set("Accept", "application/vnd.github.v3+json")
}

// --- GitHub Contents APIのリクエスト・レスポンスをパースするための構造体 ---

type githubPutRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

type githubContentResponse struct {
	SHA string `json:"sha"`
}
