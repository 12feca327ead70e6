package application

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"MEORank-App/model"
)

// fakeHistoryRepository はサービス層テスト用のAnalysisHistoryRepository実装
type fakeHistoryRepository struct {
	summaries []model.AnalysisSummary
	history   []model.BusinessRankingHistory
	err       error
}

func (f *fakeHistoryRepository) GetSummaries(ctx context.Context) ([]model.AnalysisSummary, error) {
	return f.summaries, f.err
}

func (f *fakeHistoryRepository) GetSummariesByKeyword(ctx context.Context, keyword string) ([]model.AnalysisSummary, error) {
	return f.summaries, f.err
}

func (f *fakeHistoryRepository) GetSummariesByBoundingBox(ctx context.Context, minLng, minLat, maxLng, maxLat float64) ([]model.AnalysisSummary, error) {
	return f.summaries, f.err
}

func (f *fakeHistoryRepository) GetBusinessHistory(ctx context.Context, businessID string) ([]model.BusinessRankingHistory, error) {
	return f.history, f.err
}

func TestHistoryService_GetAnalyses(t *testing.T) {
	t.Run("作成日時の降順に表示用日付つきで返す", func(t *testing.T) {
		repo := &fakeHistoryRepository{
			summaries: []model.AnalysisSummary{
				{ID: "old", CreatedAt: time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)},
				{ID: "new", CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
			},
		}
		service := NewHistoryService(repo)

		analyses, err := service.GetAnalyses(context.Background())
		if err != nil {
			t.Fatalf("GetAnalysesに失敗: %v", err)
		}
		if len(analyses) != 2 {
			t.Fatalf("件数が不正: %d", len(analyses))
		}
		if analyses[0].ID != "new" || analyses[1].ID != "old" {
			t.Errorf("作成日時の降順のはず: %s, %s", analyses[0].ID, analyses[1].ID)
		}
		if analyses[0].Date != "2025年6月1日" {
			t.Errorf("表示用日付が不正: %s", analyses[0].Date)
		}
		if analyses[1].Date != "2025年5月20日" {
			t.Errorf("表示用日付が不正: %s", analyses[1].Date)
		}
	})

	t.Run("リポジトリのエラーをラップして返す", func(t *testing.T) {
		repo := &fakeHistoryRepository{err: fmt.Errorf("接続エラー")}
		service := NewHistoryService(repo)

		_, err := service.GetAnalyses(context.Background())
		if err == nil {
			t.Fatal("エラーが返るはず")
		}
		if !strings.Contains(err.Error(), "分析履歴の取得失敗") {
			t.Errorf("エラーメッセージが不正: %v", err)
		}
	})
}

func TestHistoryService_GetAnalysesByKeyword(t *testing.T) {
	t.Run("キーワードが空の場合はエラー", func(t *testing.T) {
		service := NewHistoryService(&fakeHistoryRepository{})

		_, err := service.GetAnalysesByKeyword(context.Background(), "")
		if err == nil {
			t.Fatal("空キーワードでエラーが返るはず")
		}
		if !strings.Contains(err.Error(), "キーワードは必須です") {
			t.Errorf("エラーメッセージが不正: %v", err)
		}
	})

	t.Run("結果を降順に並べて返す", func(t *testing.T) {
		repo := &fakeHistoryRepository{
			summaries: []model.AnalysisSummary{
				{ID: "old", Keyword: "カフェ", CreatedAt: time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)},
				{ID: "new", Keyword: "カフェ", CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
			},
		}
		service := NewHistoryService(repo)

		analyses, err := service.GetAnalysesByKeyword(context.Background(), "カフェ")
		if err != nil {
			t.Fatalf("GetAnalysesByKeywordに失敗: %v", err)
		}
		if analyses[0].ID != "new" {
			t.Errorf("作成日時の降順のはず: %s", analyses[0].ID)
		}
	})
}

func TestHistoryService_GetAnalysesByBoundingBox(t *testing.T) {
	service := NewHistoryService(&fakeHistoryRepository{})
	ctx := context.Background()

	t.Run("不正な境界ボックスは検証エラー", func(t *testing.T) {
		cases := []struct {
			name                           string
			minLng, minLat, maxLng, maxLat float64
			want                           string
		}{
			{"経度のminがmax以上", 135.8, 34.9, 135.7, 35.1, "経度の最小値は最大値より小さい必要があります"},
			{"緯度のminがmax以上", 135.7, 35.1, 135.8, 34.9, "緯度の最小値は最大値より小さい必要があります"},
			{"経度が範囲外", -190.0, 34.9, 135.8, 35.1, "経度は-180から180の範囲内である必要があります"},
			{"緯度が範囲外", 135.7, 34.9, 135.8, 95.0, "緯度は-90から90の範囲内である必要があります"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := service.GetAnalysesByBoundingBox(ctx, tc.minLng, tc.minLat, tc.maxLng, tc.maxLat)
				if err == nil {
					t.Fatal("検証エラーが返るはず")
				}
				if !strings.Contains(err.Error(), "検証失敗") {
					t.Errorf("検証失敗としてラップされるはず: %v", err)
				}
				if !strings.Contains(err.Error(), tc.want) {
					t.Errorf("エラーメッセージに %q が含まれるはず: %v", tc.want, err)
				}
			})
		}
	})

	t.Run("正常な境界ボックスは結果を返す", func(t *testing.T) {
		repo := &fakeHistoryRepository{
			summaries: []model.AnalysisSummary{
				{ID: "in-box", CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
			},
		}
		service := NewHistoryService(repo)

		analyses, err := service.GetAnalysesByBoundingBox(ctx, 135.7, 34.9, 135.8, 35.1)
		if err != nil {
			t.Fatalf("GetAnalysesByBoundingBoxに失敗: %v", err)
		}
		if len(analyses) != 1 || analyses[0].ID != "in-box" {
			t.Errorf("結果が不正: %+v", analyses)
		}
	})
}

func TestHistoryService_GetBusinessHistory(t *testing.T) {
	t.Run("ビジネスIDが空の場合はエラー", func(t *testing.T) {
		service := NewHistoryService(&fakeHistoryRepository{})

		_, err := service.GetBusinessHistory(context.Background(), "")
		if err == nil {
			t.Fatal("空のビジネスIDでエラーが返るはず")
		}
		if !strings.Contains(err.Error(), "ビジネスIDは必須です") {
			t.Errorf("エラーメッセージが不正: %v", err)
		}
	})

	t.Run("履歴をレスポンス型に包んで返す", func(t *testing.T) {
		repo := &fakeHistoryRepository{
			history: []model.BusinessRankingHistory{
				{BusinessID: "ChIJ_test", BusinessName: "喫茶モカ", RankingPosition: 1, Keyword: "カフェ"},
			},
		}
		service := NewHistoryService(repo)

		resp, err := service.GetBusinessHistory(context.Background(), "ChIJ_test")
		if err != nil {
			t.Fatalf("GetBusinessHistoryに失敗: %v", err)
		}
		if resp.BusinessID != "ChIJ_test" {
			t.Errorf("ビジネスIDが不正: %s", resp.BusinessID)
		}
		if len(resp.History) != 1 || resp.History[0].BusinessName != "喫茶モカ" {
			t.Errorf("履歴が不正: %+v", resp.History)
		}
	})
}
