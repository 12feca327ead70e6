package repository

import (
	"MEORank-App/internal/domain/model"
	"MEORank-App/internal/domain/repository"
	"MEORank-App/internal/infrastructure/database"
	"context"
	"database/sql"
	"fmt"
	"time"
)

type PostgresRankingsRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresRankingsRepository(client *database.PostgreSQLClient) repository.BusinessRankingsRepository {
	return &PostgresRankingsRepository{
		client: client,
	}
}

// BusinessRankingRow NULLABLE列を受け取るためのスキャン用構造体
type BusinessRankingRow struct {
	ID              int64
	AnalysisID      string
	BusinessID      string
	BusinessName    sql.NullString
	BusinessAddress sql.NullString
	BusinessRating  sql.NullFloat64
	BusinessReviews sql.NullInt64
	GridPointID     int
	GridLat         sql.NullFloat64
	GridLng         sql.NullFloat64
	RankingPosition int
	CreatedAt       time.Time
}

// ToBusinessRanking BusinessRankingRowをmodel.BusinessRankingに変換
func (br *BusinessRankingRow) ToBusinessRanking() *model.BusinessRanking {
	return &model.BusinessRanking{
		ID:              br.ID,
		AnalysisID:      br.AnalysisID,
		BusinessID:      br.BusinessID,
		BusinessName:    br.BusinessName.String,
		BusinessAddress: br.BusinessAddress.String,
		BusinessRating:  br.BusinessRating.Float64,
		BusinessReviews: int(br.BusinessReviews.Int64),
		GridPointID:     br.GridPointID,
		GridLat:         br.GridLat.Float64,
		GridLng:         br.GridLng.Float64,
		RankingPosition: br.RankingPosition,
		CreatedAt:       br.CreatedAt,
	}
}

// InsertBatch 順位レコードをトランザクション内でまとめて保存する
// （分析・地点・ビジネス）が重複する行はON CONFLICTでスキップされる
func (r *PostgresRankingsRepository) InsertBatch(ctx context.Context, rankings []*model.BusinessRanking) error {
	if len(rankings) == 0 {
		return nil
	}

	tx, err := r.client.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO business_rankings (
			analysis_id, business_id, business_name, business_address,
			business_rating, business_reviews, grid_point_id, grid_lat, grid_lon,
			ranking_position
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (analysis_id, grid_point_id, business_id) DO NOTHING
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("INSERT文の準備に失敗: %w", err)
	}
	defer stmt.Close()

	for _, ranking := range rankings {
		_, err := stmt.ExecContext(ctx,
			ranking.AnalysisID, ranking.BusinessID, ranking.BusinessName,
			ranking.BusinessAddress, ranking.BusinessRating, ranking.BusinessReviews,
			ranking.GridPointID, ranking.GridLat, ranking.GridLng, ranking.RankingPosition)
		if err != nil {
			return fmt.Errorf("順位レコードの保存に失敗 (地点%d, %s): %w",
				ranking.GridPointID, ranking.BusinessID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗: %w", err)
	}

	return nil
}

func (r *PostgresRankingsRepository) GetByAnalysisID(ctx context.Context, analysisID string) ([]model.BusinessRanking, error) {
	query := `
		SELECT id, analysis_id, business_id, business_name, business_address,
			business_rating, business_reviews, grid_point_id, grid_lat, grid_lon,
			ranking_position, created_at
		FROM business_rankings
		WHERE analysis_id = $1
		ORDER BY grid_point_id, ranking_position
	`

	rows, err := r.client.DB.QueryContext(ctx, query, analysisID)
	if err != nil {
		return nil, fmt.Errorf("分析 %s の順位レコード取得失敗: %w", analysisID, err)
	}
	defer rows.Close()

	var rankings []model.BusinessRanking
	for rows.Next() {
		var result BusinessRankingRow
		err := rows.Scan(&result.ID, &result.AnalysisID, &result.BusinessID,
			&result.BusinessName, &result.BusinessAddress, &result.BusinessRating,
			&result.BusinessReviews, &result.GridPointID, &result.GridLat,
			&result.GridLng, &result.RankingPosition, &result.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("順位レコードスキャンエラー: %w", err)
		}

		rankings = append(rankings, *result.ToBusinessRanking())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("行イテレーション中のエラー: %w", err)
	}

	return rankings, nil
}
