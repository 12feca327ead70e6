package database

import (
	"context"
	"fmt"
)

// 分析データのスキーマ定義。既存環境を壊さないよう冪等なクエリのみ
var schemaQueries = []string{
	`CREATE TABLE IF NOT EXISTS analyses (
		id UUID PRIMARY KEY,
		center_lat DOUBLE PRECISION NOT NULL,
		center_lon DOUBLE PRECISION NOT NULL,
		keyword TEXT NOT NULL,
		num_points INTEGER NOT NULL,
		distance_km DOUBLE PRECISION NOT NULL,
		grid_rows INTEGER,
		grid_cols INTEGER,
		json_url TEXT,
		json_filename TEXT,
		businesses_found INTEGER DEFAULT 0,
		api_calls_made INTEGER DEFAULT 0,
		status TEXT DEFAULT 'processing' CHECK (status IN ('processing', 'completed', 'failed')),
		error_message TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		completed_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS business_rankings (
		id BIGSERIAL PRIMARY KEY,
		analysis_id UUID NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
		business_id TEXT NOT NULL,
		business_name TEXT,
		business_address TEXT,
		business_rating NUMERIC(3, 2),
		business_reviews INTEGER,
		grid_point_id INTEGER NOT NULL,
		grid_lat DOUBLE PRECISION,
		grid_lon DOUBLE PRECISION,
		ranking_position INTEGER NOT NULL,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		UNIQUE (analysis_id, grid_point_id, business_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_business_rankings_analysis_id
		ON business_rankings (analysis_id)`,

	`CREATE INDEX IF NOT EXISTS idx_business_rankings_business_id
		ON business_rankings (business_id)`,

	// 完了済み分析の順位を時系列で追うためのビュー
	`CREATE OR REPLACE VIEW business_ranking_history AS
		SELECT
			br.business_id,
			br.business_name,
			br.ranking_position,
			br.grid_point_id,
			br.grid_lat,
			br.grid_lon,
			a.id AS analysis_id,
			a.keyword,
			a.center_lat,
			a.center_lon,
			a.created_at
		FROM business_rankings br
		JOIN analyses a ON a.id = br.analysis_id
		WHERE a.status = 'completed'
		ORDER BY br.business_id, a.created_at`,

	// 分析ごとのサマリービュー。順位0件の分析も含める（LEFT JOIN）
	`CREATE OR REPLACE VIEW analysis_summary AS
		SELECT
			a.id,
			a.keyword,
			a.center_lat,
			a.center_lon,
			a.num_points,
			a.distance_km,
			a.status,
			a.businesses_found,
			a.api_calls_made,
			a.json_url,
			a.created_at,
			a.completed_at,
			COUNT(DISTINCT br.business_id) AS unique_businesses,
			AVG(br.ranking_position) AS avg_ranking
		FROM analyses a
		LEFT JOIN business_rankings br ON br.analysis_id = a.id
		GROUP BY a.id
		ORDER BY a.created_at DESC`,
}

// EnsureSchema 分析用のテーブル・インデックス・ビューを適用する
// 全クエリが冪等なため起動のたびに実行してよい
func (pc *PostgreSQLClient) EnsureSchema(ctx context.Context) error {
	for _, query := range schemaQueries {
		if _, err := pc.DB.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("スキーマの適用に失敗: %w", err)
		}
	}
	return nil
}
