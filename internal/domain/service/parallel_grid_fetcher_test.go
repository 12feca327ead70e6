package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"MEORank-App/internal/domain/model"
)

// fakeSearchRepo はテスト用のRankingSearchRepository実装
type fakeSearchRepo struct {
	mu          sync.Mutex
	active      int
	maxActive   int
	delay       time.Duration
	fetchFunc   func(location model.LatLng) ([]model.BusinessResult, error)
	calledCount int
}

func (f *fakeSearchRepo) FetchRankings(ctx context.Context, location model.LatLng, keyword string, depth int) ([]model.BusinessResult, error) {
	f.mu.Lock()
	f.active++
	f.calledCount++
	if f.active > f.maxActive {
		f.maxActive = f.active
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.active--
	f.mu.Unlock()

	return f.fetchFunc(location)
}

func TestParallelGridFetcher_FetchAll(t *testing.T) {
	generator := NewGridGeneratorService()
	center := model.LatLng{Lat: 35.0116, Lng: 135.7681}

	t.Run("全地点の結果を地点ID順で返す", func(t *testing.T) {
		grid, err := generator.Generate(center, 9, 1.0)
		if err != nil {
			t.Fatalf("グリッド生成でエラーが発生: %v", err)
		}

		repo := &fakeSearchRepo{
			fetchFunc: func(location model.LatLng) ([]model.BusinessResult, error) {
				return []model.BusinessResult{testBusiness("biz-a", 1)}, nil
			},
		}
		fetcher := NewParallelGridFetcher(repo)

		results := fetcher.FetchAll(context.Background(), grid, "カフェ", model.DefaultDepth)
		if len(results) != 9 {
			t.Fatalf("結果数が一致しません: got %d, want 9", len(results))
		}
		for i, result := range results {
			if result.Point.ID != i {
				t.Errorf("結果が地点ID順ではありません: results[%d].Point.ID = %d", i, result.Point.ID)
			}
			if result.Error != nil {
				t.Errorf("地点%dで想定外のエラー: %v", i, result.Error)
			}
		}
		if repo.calledCount != 9 {
			t.Errorf("API呼び出し数が一致しません: got %d, want 9", repo.calledCount)
		}
	})

	t.Run("一部地点の失敗は他の地点に影響しない", func(t *testing.T) {
		grid, err := generator.Generate(center, 9, 1.0)
		if err != nil {
			t.Fatalf("グリッド生成でエラーが発生: %v", err)
		}

		// 中央の地点（入力座標と一致）だけ失敗させる
		repo := &fakeSearchRepo{
			fetchFunc: func(location model.LatLng) ([]model.BusinessResult, error) {
				if location.Lat == center.Lat && location.Lng == center.Lng {
					return nil, fmt.Errorf("認証エラー")
				}
				return []model.BusinessResult{testBusiness("biz-a", 2)}, nil
			},
		}
		fetcher := NewParallelGridFetcher(repo)

		results := fetcher.FetchAll(context.Background(), grid, "カフェ", model.DefaultDepth)
		if len(results) != 9 {
			t.Fatalf("結果数が一致しません: got %d, want 9", len(results))
		}
		if got := CountSucceeded(results); got != 8 {
			t.Errorf("成功地点数が一致しません: got %d, want 8", got)
		}
		if FirstError(results) == nil {
			t.Error("失敗地点のエラーが記録されていません")
		}
	})

	t.Run("全地点失敗でも全結果が返る", func(t *testing.T) {
		grid, err := generator.Generate(center, 4, 1.0)
		if err != nil {
			t.Fatalf("グリッド生成でエラーが発生: %v", err)
		}

		repo := &fakeSearchRepo{
			fetchFunc: func(location model.LatLng) ([]model.BusinessResult, error) {
				return nil, fmt.Errorf("接続タイムアウト")
			},
		}
		fetcher := NewParallelGridFetcher(repo)

		results := fetcher.FetchAll(context.Background(), grid, "カフェ", model.DefaultDepth)
		if len(results) != 4 {
			t.Fatalf("結果数が一致しません: got %d, want 4", len(results))
		}
		if got := CountSucceeded(results); got != 0 {
			t.Errorf("成功地点数が一致しません: got %d, want 0", got)
		}
		if FirstError(results) == nil {
			t.Error("エラーが記録されていません")
		}
	})

	t.Run("同時実行数が上限を超えない", func(t *testing.T) {
		grid, err := generator.Generate(center, 25, 1.0)
		if err != nil {
			t.Fatalf("グリッド生成でエラーが発生: %v", err)
		}

		repo := &fakeSearchRepo{
			delay: 10 * time.Millisecond,
			fetchFunc: func(location model.LatLng) ([]model.BusinessResult, error) {
				return []model.BusinessResult{}, nil
			},
		}
		fetcher := NewParallelGridFetcher(repo)

		fetcher.FetchAll(context.Background(), grid, "カフェ", model.DefaultDepth)
		if repo.maxActive > fetcher.maxGoroutines {
			t.Errorf("同時実行数が上限を超えています: got %d, want <= %d", repo.maxActive, fetcher.maxGoroutines)
		}
	})

	t.Run("検索結果0件の地点は成功として扱う", func(t *testing.T) {
		grid, err := generator.Generate(center, 1, 1.0)
		if err != nil {
			t.Fatalf("グリッド生成でエラーが発生: %v", err)
		}

		repo := &fakeSearchRepo{
			fetchFunc: func(location model.LatLng) ([]model.BusinessResult, error) {
				return []model.BusinessResult{}, nil
			},
		}
		fetcher := NewParallelGridFetcher(repo)

		results := fetcher.FetchAll(context.Background(), grid, "カフェ", model.DefaultDepth)
		if got := CountSucceeded(results); got != 1 {
			t.Errorf("成功地点数が一致しません: got %d, want 1", got)
		}
		if len(results[0].Businesses) != 0 {
			t.Errorf("ビジネス数が一致しません: got %d, want 0", len(results[0].Businesses))
		}
	})
}
