package model

import (
	"time"
)

// AnalysisSummary analysis_summaryビューの1行（分析ごとの集計サマリー）
type AnalysisSummary struct {
	ID               string     `json:"id" db:"id"`                               // 分析ID
	Keyword          string     `json:"keyword" db:"keyword"`                     // 検索キーワード
	CenterLat        float64    `json:"center_lat" db:"center_lat"`               // 中心の緯度
	CenterLon        float64    `json:"center_lon" db:"center_lon"`               // 中心の経度
	NumPoints        int        `json:"num_points" db:"num_points"`               // 計測地点数
	DistanceKm       float64    `json:"distance_km" db:"distance_km"`             // 地点間の距離
	Status           string     `json:"status" db:"status"`                       // 分析ステータス
	BusinessesFound  int        `json:"businesses_found" db:"businesses_found"`   // 確認できたビジネス数
	APICallsMade     int        `json:"api_calls_made" db:"api_calls_made"`       // API呼び出し数
	JSONURL          *string    `json:"json_url,omitempty" db:"json_url"`         // 公開JSONのURL（NULLABLE）
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`               // 作成日時
	CompletedAt      *time.Time `json:"completed_at,omitempty" db:"completed_at"` // 完了日時（NULLABLE）
	UniqueBusinesses int        `json:"unique_businesses" db:"unique_businesses"` // ユニークなビジネス数
	AvgRanking       *float64   `json:"avg_ranking,omitempty" db:"avg_ranking"`   // 平均順位（順位0件の場合NULL）
	Date             string     `json:"date"`                                     // 表示用の日付（サービス層で設定）
}

// BusinessRankingHistory business_ranking_historyビューの1行（完了済み分析の順位履歴）
type BusinessRankingHistory struct {
	BusinessID      string    `json:"business_id" db:"business_id"`
	BusinessName    string    `json:"business_name" db:"business_name"`
	RankingPosition int       `json:"ranking_position" db:"ranking_position"`
	GridPointID     int       `json:"grid_point_id" db:"grid_point_id"`
	GridLat         float64   `json:"grid_lat" db:"grid_lat"`
	GridLon         float64   `json:"grid_lon" db:"grid_lon"`
	AnalysisID      string    `json:"analysis_id" db:"analysis_id"`
	Keyword         string    `json:"keyword" db:"keyword"`
	CenterLat       float64   `json:"center_lat" db:"center_lat"`
	CenterLon       float64   `json:"center_lon" db:"center_lon"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// GetAnalysesResponse 分析一覧取得APIのレスポンス
type GetAnalysesResponse struct {
	Analyses []AnalysisSummary `json:"analyses"`
}

// GetBusinessHistoryResponse ビジネスの順位履歴取得APIのレスポンス
type GetBusinessHistoryResponse struct {
	BusinessID string                   `json:"business_id"`
	History    []BusinessRankingHistory `json:"history"`
}
