package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"MEORank-App/internal/domain/model"
	"MEORank-App/internal/infrastructure/database"
)

func TestAnalysisRow_ToAnalysis(t *testing.T) {
	t.Run("NULL列はnilポインタに変換", func(t *testing.T) {
		row := AnalysisRow{
			ID:         "analysis-1",
			CenterLat:  35.0116,
			CenterLng:  135.7681,
			Keyword:    "カフェ",
			NumPoints:  9,
			DistanceKm: 1.0,
			Status:     model.StatusProcessing,
			CreatedAt:  time.Now(),
		}

		analysis := row.ToAnalysis()
		if analysis.JSONURL != nil {
			t.Errorf("NULLのjson_urlはnilのはず: %v", analysis.JSONURL)
		}
		if analysis.JSONFilename != nil {
			t.Errorf("NULLのjson_filenameはnilのはず: %v", analysis.JSONFilename)
		}
		if analysis.ErrorMessage != nil {
			t.Errorf("NULLのerror_messageはnilのはず: %v", analysis.ErrorMessage)
		}
		if analysis.CompletedAt != nil {
			t.Errorf("NULLのcompleted_atはnilのはず: %v", analysis.CompletedAt)
		}
		if analysis.GridRows != 0 || analysis.GridCols != 0 {
			t.Errorf("NULLのグリッドサイズは0のはず: %d x %d", analysis.GridRows, analysis.GridCols)
		}
	})

	t.Run("有効な列は値に変換", func(t *testing.T) {
		completedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		row := AnalysisRow{
			ID:           "analysis-2",
			Keyword:      "ラーメン",
			GridRows:     sql.NullInt64{Int64: 3, Valid: true},
			GridCols:     sql.NullInt64{Int64: 3, Valid: true},
			JSONURL:      sql.NullString{String: "https://example.com/data/abc.json", Valid: true},
			JSONFilename: sql.NullString{String: "abc.json", Valid: true},
			Status:       model.StatusCompleted,
			CompletedAt:  sql.NullTime{Time: completedAt, Valid: true},
		}

		analysis := row.ToAnalysis()
		if analysis.GetJSONURL() != "https://example.com/data/abc.json" {
			t.Errorf("json_urlが不正: %s", analysis.GetJSONURL())
		}
		if analysis.JSONFilename == nil || *analysis.JSONFilename != "abc.json" {
			t.Errorf("json_filenameが不正: %v", analysis.JSONFilename)
		}
		if analysis.CompletedAt == nil || !analysis.CompletedAt.Equal(completedAt) {
			t.Errorf("completed_atが不正: %v", analysis.CompletedAt)
		}
	})
}

// setupAnalysesTestDB 統合テスト用のPostgreSQL接続を準備する
// 環境変数が無い場合はテストをスキップする
func setupAnalysesTestDB(t *testing.T) *database.PostgreSQLClient {
	t.Helper()

	// 環境変数の読み込み
	if err := godotenv.Load("../../.env"); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	if os.Getenv("SUPABASE_URL") == "" || os.Getenv("SUPABASE_DB_PASSWORD") == "" {
		t.Skip("必要な環境変数が設定されていません。統合テストをスキップします。")
	}

	client, err := database.NewPostgreSQLClient()
	if err != nil {
		t.Fatalf("PostgreSQL接続に失敗: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	if err := client.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("スキーマの適用に失敗: %v", err)
	}

	return client
}

func createTestAnalysis() *model.Analysis {
	req := model.AnalysisRequest{
		CenterLat: 35.0116,
		CenterLng: 135.7681,
		Keyword:   "統合テスト用カフェ",
	}
	req.ApplyDefaults()
	grid := &model.Grid{Rows: 3, Cols: 3}
	return req.ToAnalysis(uuid.New().String(), grid)
}

func TestPostgresAnalysesRepository_Integration(t *testing.T) {
	log.Printf("🧪 分析レコードリポジトリの統合テスト開始")

	client := setupAnalysesTestDB(t)
	repo := NewPostgresAnalysesRepository(client)
	ctx := context.Background()

	analysis := createTestAnalysis()

	t.Run("作成した分析をIDで取得できる", func(t *testing.T) {
		if err := repo.Create(ctx, analysis); err != nil {
			t.Fatalf("分析レコードの作成に失敗: %v", err)
		}
		log.Printf("✅ 分析レコード作成成功 (ID: %s)", analysis.ID)

		got, err := repo.GetByID(ctx, analysis.ID)
		if err != nil {
			t.Fatalf("分析レコードの取得に失敗: %v", err)
		}
		if got.Keyword != analysis.Keyword {
			t.Errorf("キーワードが不正: %s", got.Keyword)
		}
		if got.Status != model.StatusProcessing {
			t.Errorf("作成直後はprocessingのはず: %s", got.Status)
		}
		if got.GridRows != 3 || got.GridCols != 3 {
			t.Errorf("グリッドサイズが不正: %d x %d", got.GridRows, got.GridCols)
		}
	})

	t.Run("完了更新でURLと件数が保存される", func(t *testing.T) {
		err := repo.MarkCompleted(ctx, analysis.ID, "https://example.com/data/test.json", "test.json", 12, 9)
		if err != nil {
			t.Fatalf("完了更新に失敗: %v", err)
		}

		got, err := repo.GetByID(ctx, analysis.ID)
		if err != nil {
			t.Fatalf("分析レコードの取得に失敗: %v", err)
		}
		if got.Status != model.StatusCompleted {
			t.Errorf("ステータスがcompletedのはず: %s", got.Status)
		}
		if got.GetJSONURL() != "https://example.com/data/test.json" {
			t.Errorf("json_urlが不正: %s", got.GetJSONURL())
		}
		if got.BusinessesFound != 12 || got.APICallsMade != 9 {
			t.Errorf("件数が不正: businesses=%d api_calls=%d", got.BusinessesFound, got.APICallsMade)
		}
		if got.CompletedAt == nil {
			t.Error("completed_atが設定されるはず")
		}
	})

	t.Run("完了済みの分析は失敗更新できない", func(t *testing.T) {
		err := repo.MarkFailed(ctx, analysis.ID, "何らかのエラー", 9)
		if err == nil {
			t.Fatal("completed状態からの巻き戻しはエラーになるはず")
		}
		if !strings.Contains(err.Error(), "見つかりません") {
			t.Errorf("エラーメッセージが不正: %v", err)
		}
	})

	t.Run("順位0件の分析はサマリービューにunique_businesses=0で現れる", func(t *testing.T) {
		failed := createTestAnalysis()
		if err := repo.Create(ctx, failed); err != nil {
			t.Fatalf("分析レコードの作成に失敗: %v", err)
		}
		t.Cleanup(func() { _ = repo.Delete(ctx, failed.ID) })

		if err := repo.MarkFailed(ctx, failed.ID, "全地点の計測に失敗", 9); err != nil {
			t.Fatalf("失敗更新に失敗: %v", err)
		}

		var status string
		var uniqueBusinesses int
		var avgRanking sql.NullFloat64
		row := client.DB.QueryRowContext(ctx,
			`SELECT status, unique_businesses, avg_ranking FROM analysis_summary WHERE id = $1`, failed.ID)
		if err := row.Scan(&status, &uniqueBusinesses, &avgRanking); err != nil {
			t.Fatalf("サマリービューの取得に失敗: %v", err)
		}
		if status != model.StatusFailed {
			t.Errorf("ステータスがfailedのはず: %s", status)
		}
		if uniqueBusinesses != 0 {
			t.Errorf("順位0件ならunique_businessesは0のはず: %d", uniqueBusinesses)
		}
		if avgRanking.Valid {
			t.Errorf("順位0件ならavg_rankingはNULLのはず: %v", avgRanking.Float64)
		}
	})

	t.Run("分析を削除できる", func(t *testing.T) {
		if err := repo.Delete(ctx, analysis.ID); err != nil {
			t.Fatalf("分析の削除に失敗: %v", err)
		}
		log.Printf("🗑️ 分析レコード削除成功 (ID: %s)", analysis.ID)

		if _, err := repo.GetByID(ctx, analysis.ID); err == nil {
			t.Fatal("削除後の取得はエラーになるはず")
		}

		var viewCount int
		err := client.DB.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM analysis_summary WHERE id = $1`, analysis.ID).Scan(&viewCount)
		if err != nil {
			t.Fatalf("サマリービューの取得に失敗: %v", err)
		}
		if viewCount != 0 {
			t.Errorf("削除した分析がサマリービューに残っています: %d件", viewCount)
		}
	})

	t.Run("存在しないIDの取得はエラー", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New().String())
		if err == nil {
			t.Fatal("存在しないIDでエラーが返るはず")
		}
		if !strings.Contains(err.Error(), "見つかりません") {
			t.Errorf("エラーメッセージが不正: %v", err)
		}
	})

	log.Printf("🎉 分析レコードリポジトリの統合テスト完了")
}
