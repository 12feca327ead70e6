package model

import "time"

// LatLng 緯度経度を表す基本的な型（順位計測の座標指定などで使用）
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// BusinessResult 1地点の検索結果に含まれる1ビジネス（順位付き）
type BusinessResult struct {
	ID       string  `json:"id"`       // place_id（無ければcid）によるユニークなビジネスID
	Title    string  `json:"title"`    // ビジネス名
	Address  string  `json:"address"`  // 住所
	Rating   float64 `json:"rating"`   // 評価値
	Reviews  int     `json:"reviews"`  // レビュー数
	Position int     `json:"position"` // その地点での順位（1始まり）
}

// ToBusiness 順位情報を除いたビジネス情報に変換
func (r *BusinessResult) ToBusiness() Business {
	return Business{
		ID:      r.ID,
		Title:   r.Title,
		Address: r.Address,
		Rating:  r.Rating,
		Reviews: r.Reviews,
	}
}

// ToRanking 計測地点の情報と合わせてDB保存用の順位レコードに変換
func (r *BusinessResult) ToRanking(analysisID string, point GridPoint) *BusinessRanking {
	return &BusinessRanking{
		AnalysisID:      analysisID,
		BusinessID:      r.ID,
		BusinessName:    r.Title,
		BusinessAddress: r.Address,
		BusinessRating:  r.Rating,
		BusinessReviews: r.Reviews,
		GridPointID:     point.ID,
		GridLat:         point.Lat,
		GridLng:         point.Lng,
		RankingPosition: r.Position,
	}
}

// Business 分析全体で一意なビジネス情報（結果ドキュメントに格納）
type Business struct {
	ID      string  `json:"id" firestore:"id"`
	Title   string  `json:"title" firestore:"title"`
	Address string  `json:"address" firestore:"address"`
	Rating  float64 `json:"rating" firestore:"rating"`
	Reviews int     `json:"reviews" firestore:"reviews"`
}

// BusinessRanking business_rankingsテーブルの1行（地点×ビジネスの順位）
type BusinessRanking struct {
	ID              int64     `json:"id" db:"id"`
	AnalysisID      string    `json:"analysis_id" db:"analysis_id"`
	BusinessID      string    `json:"business_id" db:"business_id"`
	BusinessName    string    `json:"business_name" db:"business_name"`
	BusinessAddress string    `json:"business_address" db:"business_address"`
	BusinessRating  float64   `json:"business_rating" db:"business_rating"`
	BusinessReviews int       `json:"business_reviews" db:"business_reviews"`
	GridPointID     int       `json:"grid_point_id" db:"grid_point_id"`
	GridLat         float64   `json:"grid_lat" db:"grid_lat"`
	GridLng         float64   `json:"grid_lon" db:"grid_lon"`
	RankingPosition int       `json:"ranking_position" db:"ranking_position"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// AggregatedBusiness グリッド全体を集計した1ビジネスの順位サマリー
type AggregatedBusiness struct {
	BusinessID    string  `json:"business_id"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	Rating        float64 `json:"rating"`
	Reviews       int     `json:"reviews"`
	BestRank      int     `json:"best_rank"`      // 全地点での最良順位
	WorstRank     int     `json:"worst_rank"`     // 全地点での最悪順位
	AvgRank       float64 `json:"avg_rank"`       // 表示された地点のみの平均順位
	PointsPresent int     `json:"points_present"` // 20位以内に表示された地点数
	Tier          string  `json:"tier"`           // best_rankから算出したティア
}

// GetTier 最良順位からティアを算出して返す
func (a *AggregatedBusiness) GetTier() string {
	return GetTierForRank(a.BestRank)
}
