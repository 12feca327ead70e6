package model

import "time"

// Analysis analysesテーブルの1行（1回のグリッド分析）
type Analysis struct {
	ID              string     `json:"id" db:"id"`
	CenterLat       float64    `json:"center_lat" db:"center_lat"`
	CenterLng       float64    `json:"center_lon" db:"center_lon"`
	Keyword         string     `json:"keyword" db:"keyword"`
	NumPoints       int        `json:"num_points" db:"num_points"`
	DistanceKm      float64    `json:"distance_km" db:"distance_km"`
	GridRows        int        `json:"grid_rows" db:"grid_rows"`
	GridCols        int        `json:"grid_cols" db:"grid_cols"`
	JSONURL         *string    `json:"json_url,omitempty" db:"json_url"`         // 公開JSONのURL（NULLABLE）
	JSONFilename    *string    `json:"json_filename,omitempty" db:"json_filename"` // 公開JSONのファイル名（NULLABLE）
	BusinessesFound int        `json:"businesses_found" db:"businesses_found"`
	APICallsMade    int        `json:"api_calls_made" db:"api_calls_made"`
	Status          string     `json:"status" db:"status"`
	ErrorMessage    *string    `json:"error_message,omitempty" db:"error_message"` // 失敗時の理由（NULLABLE）
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" db:"completed_at"` // 完了時刻（NULLABLE）
}

// ToCenter 分析の中心座標をLatLng型に変換
func (a *Analysis) ToCenter() LatLng {
	return LatLng{
		Lat: a.CenterLat,
		Lng: a.CenterLng,
	}
}

// GetJSONURL JSONのURLが存在する場合は値を、存在しない場合は空文字列を返す
func (a *Analysis) GetJSONURL() string {
	if a.JSONURL != nil {
		return *a.JSONURL
	}
	return ""
}

// SetJSONURL JSONのURLを設定する（空文字列の場合はnilのまま保持）
func (a *Analysis) SetJSONURL(url string) {
	if url != "" {
		a.JSONURL = &url
	}
}

// GetErrorMessage エラーメッセージが存在する場合は値を、存在しない場合は空文字列を返す
func (a *Analysis) GetErrorMessage() string {
	if a.ErrorMessage != nil {
		return *a.ErrorMessage
	}
	return ""
}

// IsProcessing 分析が処理中かどうかを判定する
func (a *Analysis) IsProcessing() bool {
	return a.Status == StatusProcessing
}

// IsCompleted 分析が完了済みかどうかを判定する
func (a *Analysis) IsCompleted() bool {
	return a.Status == StatusCompleted
}

// IsFailed 分析が失敗済みかどうかを判定する
func (a *Analysis) IsFailed() bool {
	return a.Status == StatusFailed
}

// AnalysisRequest は1回のグリッド分析に必要な全ての条件を保持する
type AnalysisRequest struct {
	CenterLat  float64 `json:"lat" validate:"required,min=-90,max=90"`    // 必須：中心の緯度
	CenterLng  float64 `json:"lon" validate:"required,min=-180,max=180"`  // 必須：中心の経度
	Keyword    string  `json:"keyword" validate:"required"`               // 必須：検索キーワード
	NumPoints  int     `json:"num_points"`                                // オプション：指定がなければDefaultNumPoints
	DistanceKm float64 `json:"distance_km"`                               // オプション：指定がなければDefaultDistanceKm
}

// Center 中心座標をLatLng形式で取得
func (r *AnalysisRequest) Center() LatLng {
	return LatLng{
		Lat: r.CenterLat,
		Lng: r.CenterLng,
	}
}

// ApplyDefaults 未指定のオプション項目にデフォルト値を設定する
func (r *AnalysisRequest) ApplyDefaults() {
	if r.NumPoints <= 0 {
		r.NumPoints = DefaultNumPoints
	}
	if r.DistanceKm <= 0 {
		r.DistanceKm = DefaultDistanceKm
	}
}

// ToAnalysis リクエストと生成済みグリッドからprocessing状態の分析レコードを作成する
func (r *AnalysisRequest) ToAnalysis(analysisID string, grid *Grid) *Analysis {
	return &Analysis{
		ID:         analysisID,
		CenterLat:  r.CenterLat,
		CenterLng:  r.CenterLng,
		Keyword:    r.Keyword,
		NumPoints:  r.NumPoints,
		DistanceKm: r.DistanceKm,
		GridRows:   grid.Rows,
		GridCols:   grid.Cols,
		Status:     StatusProcessing,
		CreatedAt:  time.Now().UTC(),
	}
}

// AnalysisMetadata 結果ドキュメントに埋め込む分析条件のメタデータ
type AnalysisMetadata struct {
	CenterLat    float64   `json:"center_lat" firestore:"center_lat"`
	CenterLng    float64   `json:"center_lon" firestore:"center_lon"`
	Keyword      string    `json:"keyword" firestore:"keyword"`
	NumPoints    int       `json:"num_points" firestore:"num_points"`
	DistanceKm   float64   `json:"distance_km" firestore:"distance_km"`
	GridRows     int       `json:"grid_rows" firestore:"grid_rows"`
	GridCols     int       `json:"grid_cols" firestore:"grid_cols"`
	CreatedAt    time.Time `json:"created_at" firestore:"created_at"`
	APICallsMade int       `json:"api_calls_made" firestore:"api_calls_made"`
}

// ToMetadata 分析レコードから結果ドキュメント用のメタデータを作成する
func (a *Analysis) ToMetadata() AnalysisMetadata {
	return AnalysisMetadata{
		CenterLat:    a.CenterLat,
		CenterLng:    a.CenterLng,
		Keyword:      a.Keyword,
		NumPoints:    a.NumPoints,
		DistanceKm:   a.DistanceKm,
		GridRows:     a.GridRows,
		GridCols:     a.GridCols,
		CreatedAt:    a.CreatedAt,
		APICallsMade: a.APICallsMade,
	}
}

// AnalysisResultDocument ビューアが読み込む分析結果の完全なドキュメント
// Rankingsはビジネス ID→地点ID（文字列）→順位の二重マップ
type AnalysisResultDocument struct {
	AnalysisID string                    `json:"analysis_id" firestore:"analysis_id"`
	Metadata   AnalysisMetadata          `json:"metadata" firestore:"metadata"`
	GridPoints []GridPoint               `json:"grid_points" firestore:"grid_points"`
	Businesses []Business                `json:"businesses" firestore:"businesses"`
	Rankings   map[string]map[string]int `json:"rankings" firestore:"rankings"`
	Bounds     *GeoBounds                `json:"bounds,omitempty" firestore:"bounds"`
	Insight    string                    `json:"insight,omitempty" firestore:"insight"`
}

// FirestoreAnalysisResult Firestoreに保存する分析結果ドキュメント（TTL付き）
type FirestoreAnalysisResult struct {
	AnalysisID string                    `firestore:"analysis_id"`
	Metadata   AnalysisMetadata          `firestore:"metadata"`
	GridPoints []GridPoint               `firestore:"grid_points"`
	Businesses []Business                `firestore:"businesses"`
	Rankings   map[string]map[string]int `firestore:"rankings"`
	Bounds     *GeoBounds                `firestore:"bounds"`
	Insight    string                    `firestore:"insight"`
	ExpireAt   time.Time                 `firestore:"expireAt"`
}

func (d *AnalysisResultDocument) ToFirestoreAnalysisResult(ttlHours int) *FirestoreAnalysisResult {
	return &FirestoreAnalysisResult{
		AnalysisID: d.AnalysisID,
		Metadata:   d.Metadata,
		GridPoints: d.GridPoints,
		Businesses: d.Businesses,
		Rankings:   d.Rankings,
		Bounds:     d.Bounds,
		Insight:    d.Insight,
		ExpireAt:   time.Now().Add(time.Duration(ttlHours) * time.Hour),
	}
}

func (f *FirestoreAnalysisResult) ToAnalysisResultDocument() *AnalysisResultDocument {
	return &AnalysisResultDocument{
		AnalysisID: f.AnalysisID,
		Metadata:   f.Metadata,
		GridPoints: f.GridPoints,
		Businesses: f.Businesses,
		Rankings:   f.Rankings,
		Bounds:     f.Bounds,
		Insight:    f.Insight,
	}
}

// AnalysisResponse 分析実行APIのレスポンス
type AnalysisResponse struct {
	AnalysisID      string               `json:"analysis_id"`
	Status          string               `json:"status"`
	GridRows        int                  `json:"grid_rows"`
	GridCols        int                  `json:"grid_cols"`
	BusinessesFound int                  `json:"businesses_found"`
	APICallsMade    int                  `json:"api_calls_made"`
	FailedPoints    int                  `json:"failed_points"`
	JSONURL         string               `json:"json_url,omitempty"`
	ViewerURL       string               `json:"viewer_url,omitempty"`
	Insight         string               `json:"insight,omitempty"`
	Businesses      []AggregatedBusiness `json:"businesses"`
}

// AnalysisDetailResponse 分析詳細取得APIのレスポンス
type AnalysisDetailResponse struct {
	Analysis   *Analysis            `json:"analysis"`
	Businesses []AggregatedBusiness `json:"businesses"`
	ViewerURL  string               `json:"viewer_url,omitempty"`
}
