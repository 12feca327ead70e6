package seo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"MEORank-App/internal/domain/model"
)

const dataForSEOBaseURL = "https://api.dataforseo.com/v3/business_data/google/my_business_info/live"

// DataForSEOProvider はDataForSEO Business Data APIを使用した検索順位取得の実装
type DataForSEOProvider struct {
	login      string
	password   string
	baseURL    string
	httpClient *http.Client
}

// NewDataForSEOProvider は新しいプロバイダを生成する
func NewDataForSEOProvider(login, password string) *DataForSEOProvider {
	return &DataForSEOProvider{
		login:      login,
		password:   password,
		baseURL:    dataForSEOBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewDataForSEOProviderWithBaseURL は接続先を指定してプロバイダを生成する（テスト用）
func NewDataForSEOProviderWithBaseURL(login, password, baseURL string) *DataForSEOProvider {
	provider := NewDataForSEOProvider(login, password)
	provider.baseURL = baseURL
	return provider
}

// FetchRankings は指定座標を検索地点としてローカル検索を実行し、順位付きのビジネス一覧を返す
func (d *DataForSEOProvider) FetchRankings(ctx context.Context, location model.LatLng, keyword string, depth int) ([]model.BusinessResult, error) {
	// 1. APIリクエストボディを構築（タスク1件の配列）
	payload, err := d.buildPayload(location, keyword, depth)
	if err != nil {
		return nil, fmt.Errorf("リクエストボディの構築に失敗: %w", err)
	}

	// 2. HTTPリクエストを作成・実行
	req, err := http.NewRequestWithContext(ctx, "POST", d.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(d.login, d.password)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status)
	}

	// 3. JSONレスポンスをパース
	var apiResp dataForSEOResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}

	// 4. ドメインモデルに変換して返す
	//    タスクや検索結果が空の場合はエラーではなく0件として扱う
	if len(apiResp.Tasks) == 0 || len(apiResp.Tasks[0].Result) == 0 {
		return []model.BusinessResult{}, nil
	}

	items := apiResp.Tasks[0].Result[0].Items
	results := make([]model.BusinessResult, 0, len(items))
	for i, item := range items {
		// place_idが無い場合はcidで識別する。どちらも無ければスキップ
		businessID := item.PlaceID
		if businessID == "" {
			businessID = item.CID
		}
		if businessID == "" {
			continue
		}

		result := model.BusinessResult{
			ID:       businessID,
			Title:    item.Title,
			Address:  item.Address,
			Position: i + 1, // 返却順の1始まりの順位
		}
		if item.Rating != nil {
			result.Rating = item.Rating.Value
			result.Reviews = item.Rating.VotesCount
		}
		results = append(results, result)
	}

	return results, nil
}

func (d *DataForSEOProvider) buildPayload(location model.LatLng, keyword string, depth int) ([]byte, error) {
	task := dataForSEOTaskRequest{
		LanguageCode:       "en",
		LocationCoordinate: fmt.Sprintf("%f,%f", location.Lat, location.Lng),
		Keyword:            keyword,
		Depth:              depth,
	}
	return json.Marshal([]dataForSEOTaskRequest{task})
}

// --- DataForSEO APIのリクエスト・レスポンスをパースするための構造体 ---

type dataForSEOTaskRequest struct {
	LanguageCode       string `json:"language_code"`
	LocationCoordinate string `json:"location_coordinate"`
	Keyword            string `json:"keyword"`
	Depth              int    `json:"depth"`
}

type dataForSEOResponse struct {
	StatusCode    int              `json:"status_code"`
	StatusMessage string           `json:"status_message,omitempty"`
	Tasks         []dataForSEOTask `json:"tasks"`
}
type dataForSEOTask struct {
	StatusCode int                `json:"status_code"`
	Result     []dataForSEOResult `json:"result"`
}
type dataForSEOResult struct {
	Items []dataForSEOItem `json:"items"`
}
type dataForSEOItem struct {
	PlaceID string            `json:"place_id"`
	CID     string            `json:"cid"`
	Title   string            `json:"title"`
	Address string            `json:"address"`
	Rating  *dataForSEORating `json:"rating"`
}
type dataForSEORating struct {
	Value      float64 `json:"value"`
	VotesCount int     `json:"votes_count"`
}
