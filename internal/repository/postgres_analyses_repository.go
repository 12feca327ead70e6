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

type PostgresAnalysesRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresAnalysesRepository(client *database.PostgreSQLClient) repository.AnalysesRepository {
	return &PostgresAnalysesRepository{
		client: client,
	}
}

// AnalysisRow NULLABLE列を受け取るためのスキャン用構造体
type AnalysisRow struct {
	ID              string
	CenterLat       float64
	CenterLng       float64
	Keyword         string
	NumPoints       int
	DistanceKm      float64
	GridRows        sql.NullInt64
	GridCols        sql.NullInt64
	JSONURL         sql.NullString
	JSONFilename    sql.NullString
	BusinessesFound int
	APICallsMade    int
	Status          string
	ErrorMessage    sql.NullString
	CreatedAt       time.Time
	CompletedAt     sql.NullTime
}

// ToAnalysis AnalysisRowをmodel.Analysisに変換
func (ar *AnalysisRow) ToAnalysis() *model.Analysis {
	analysis := &model.Analysis{
		ID:              ar.ID,
		CenterLat:       ar.CenterLat,
		CenterLng:       ar.CenterLng,
		Keyword:         ar.Keyword,
		NumPoints:       ar.NumPoints,
		DistanceKm:      ar.DistanceKm,
		GridRows:        int(ar.GridRows.Int64),
		GridCols:        int(ar.GridCols.Int64),
		BusinessesFound: ar.BusinessesFound,
		APICallsMade:    ar.APICallsMade,
		Status:          ar.Status,
		CreatedAt:       ar.CreatedAt,
	}

	if ar.JSONURL.Valid {
		analysis.JSONURL = &ar.JSONURL.String
	}
	if ar.JSONFilename.Valid {
		analysis.JSONFilename = &ar.JSONFilename.String
	}
	if ar.ErrorMessage.Valid {
		analysis.ErrorMessage = &ar.ErrorMessage.String
	}
	if ar.CompletedAt.Valid {
		completedAt := ar.CompletedAt.Time
		analysis.CompletedAt = &completedAt
	}

	return analysis
}

func (r *PostgresAnalysesRepository) Create(ctx context.Context, analysis *model.Analysis) error {
	query := `
		INSERT INTO analyses (
			id, center_lat, center_lon, keyword, num_points, distance_km,
			grid_rows, grid_cols, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.client.DB.ExecContext(ctx, query,
		analysis.ID, analysis.CenterLat, analysis.CenterLng, analysis.Keyword,
		analysis.NumPoints, analysis.DistanceKm, analysis.GridRows, analysis.GridCols,
		analysis.Status, analysis.CreatedAt)
	if err != nil {
		return fmt.Errorf("分析レコードの作成に失敗: %w", err)
	}

	return nil
}

func (r *PostgresAnalysesRepository) GetByID(ctx context.Context, id string) (*model.Analysis, error) {
	query := `
		SELECT id, center_lat, center_lon, keyword, num_points, distance_km,
			grid_rows, grid_cols, json_url, json_filename, businesses_found,
			api_calls_made, status, error_message, created_at, completed_at
		FROM analyses WHERE id = $1
	`

	row := r.client.DB.QueryRowContext(ctx, query, id)

	var result AnalysisRow
	err := row.Scan(&result.ID, &result.CenterLat, &result.CenterLng, &result.Keyword,
		&result.NumPoints, &result.DistanceKm, &result.GridRows, &result.GridCols,
		&result.JSONURL, &result.JSONFilename, &result.BusinessesFound,
		&result.APICallsMade, &result.Status, &result.ErrorMessage,
		&result.CreatedAt, &result.CompletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("分析 %s が見つかりません", id)
		}
		return nil, fmt.Errorf("分析レコードの取得失敗: %w", err)
	}

	return result.ToAnalysis(), nil
}

// MarkCompleted 分析を完了状態に更新する
// processing以外の行は更新しない（completed/failedからの巻き戻しを防ぐ）
func (r *PostgresAnalysesRepository) MarkCompleted(ctx context.Context, id string, jsonURL, jsonFilename string, businessesFound, apiCallsMade int) error {
	query := `
		UPDATE analyses
		SET status = 'completed',
			json_url = NULLIF($2, ''),
			json_filename = NULLIF($3, ''),
			businesses_found = $4,
			api_calls_made = $5,
			completed_at = NOW()
		WHERE id = $1 AND status = 'processing'
	`

	result, err := r.client.DB.ExecContext(ctx, query, id, jsonURL, jsonFilename, businessesFound, apiCallsMade)
	if err != nil {
		return fmt.Errorf("分析の完了更新に失敗: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新行数の取得に失敗: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("処理中の分析 %s が見つかりません", id)
	}

	return nil
}

// MarkFailed 分析を失敗状態に更新する
// processing以外の行は更新しない（completed/failedからの巻き戻しを防ぐ）
func (r *PostgresAnalysesRepository) MarkFailed(ctx context.Context, id string, errorMessage string, apiCallsMade int) error {
	query := `
		UPDATE analyses
		SET status = 'failed',
			error_message = $2,
			api_calls_made = $3,
			completed_at = NOW()
		WHERE id = $1 AND status = 'processing'
	`

	result, err := r.client.DB.ExecContext(ctx, query, id, errorMessage, apiCallsMade)
	if err != nil {
		return fmt.Errorf("分析の失敗更新に失敗: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新行数の取得に失敗: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("処理中の分析 %s が見つかりません", id)
	}

	return nil
}

// Delete 分析を削除する（business_rankingsはON DELETE CASCADEで同時に削除される）
func (r *PostgresAnalysesRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM analyses WHERE id = $1`

	result, err := r.client.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("分析の削除に失敗: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除行数の取得に失敗: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("分析 %s が見つかりません", id)
	}

	return nil
}
