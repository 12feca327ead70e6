package usecase

import (
	"MEORank-App/internal/domain/model"
	"MEORank-App/internal/domain/repository"
	"MEORank-App/internal/domain/service"
	repoImpl "MEORank-App/internal/repository"
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
)

type AnalysisUseCase interface {
	// RunAnalysis はグリッド生成→順位取得→集計→保存までの分析全体を実行する
	RunAnalysis(ctx context.Context, req *model.AnalysisRequest) (*model.AnalysisResponse, error)

	// GetAnalysisDetail は指定されたanalysis_idの分析レコードと集計結果を取得する
	GetAnalysisDetail(ctx context.Context, analysisID string) (*model.AnalysisDetailResponse, error)

	// GetAnalysisResult は指定されたanalysis_idのビューア用結果ドキュメントをFirestoreから取得する
	GetAnalysisResult(ctx context.Context, analysisID string) (*model.AnalysisResultDocument, error)

	// DeleteAnalysis は分析レコードと付随する順位レコード・結果ドキュメントを削除する
	DeleteAnalysis(ctx context.Context, analysisID string) error

	// PreviewGrid は分析を実行せずに計測グリッドだけをGeoJSONで返す
	PreviewGrid(ctx context.Context, req *model.AnalysisRequest) (*geojson.FeatureCollection, error)
}

// analysisUseCaseImpl はAnalysisUseCaseの実装
type analysisUseCaseImpl struct {
	gridGenerator *service.GridGeneratorService
	gridFetcher   *service.ParallelGridFetcher
	aggregator    *service.RankingAggregatorService
	analysesRepo  repository.AnalysesRepository
	rankingsRepo  repository.BusinessRankingsRepository
	resultRepo    repository.AnalysisResultRepository
	publishRepo   repository.ResultPublishRepository     // 任意（nilなら公開をスキップ）
	insightRepo   repository.InsightGenerationRepository // 任意（nilなら講評をスキップ）
	viewerBaseURL string
}

// NewAnalysisUseCase は新しいAnalysisUseCaseインスタンスを作成
func NewAnalysisUseCase(
	gridGenerator *service.GridGeneratorService,
	gridFetcher *service.ParallelGridFetcher,
	aggregator *service.RankingAggregatorService,
	analysesRepo repository.AnalysesRepository,
	rankingsRepo repository.BusinessRankingsRepository,
	resultRepo repository.AnalysisResultRepository,
	publishRepo repository.ResultPublishRepository,
	insightRepo repository.InsightGenerationRepository,
	viewerBaseURL string,
) AnalysisUseCase {
	return &analysisUseCaseImpl{
		gridGenerator: gridGenerator,
		gridFetcher:   gridFetcher,
		aggregator:    aggregator,
		analysesRepo:  analysesRepo,
		rankingsRepo:  rankingsRepo,
		resultRepo:    resultRepo,
		publishRepo:   publishRepo,
		insightRepo:   insightRepo,
		viewerBaseURL: viewerBaseURL,
	}
}

// RunAnalysis はグリッド生成→順位取得→集計→保存までの分析全体を実行する
// 1地点でも取得に成功すればcompleted、全地点失敗ならfailedとして記録する
func (u *analysisUseCaseImpl) RunAnalysis(ctx context.Context, req *model.AnalysisRequest) (*model.AnalysisResponse, error) {
	req.ApplyDefaults()
	log.Printf("🚀 順位分析開始 (キーワード: %s, 地点数: %d, 間隔: %.2fkm)", req.Keyword, req.NumPoints, req.DistanceKm)

	// Step 1: 計測グリッドを生成（外部呼び出しの前に入力を検証）
	grid, err := u.gridGenerator.Generate(req.Center(), req.NumPoints, req.DistanceKm)
	if err != nil {
		return nil, fmt.Errorf("グリッド生成に失敗: %w", err)
	}
	log.Printf("✅ %d×%dグリッド生成完了 (%d地点)", grid.Rows, grid.Cols, grid.NumPoints())

	// Step 2: 分析レコードをprocessing状態で作成
	analysisID := uuid.New().String()
	analysis := req.ToAnalysis(analysisID, grid)
	if err := u.analysesRepo.Create(ctx, analysis); err != nil {
		return nil, fmt.Errorf("分析レコードの作成に失敗: %w", err)
	}

	// Step 3: 全地点の順位を並行取得（地点単位の失敗は分析を止めない）
	results := u.gridFetcher.FetchAll(ctx, grid, req.Keyword, model.DefaultDepth)
	apiCallsMade := len(results)
	succeeded := service.CountSucceeded(results)
	failedPoints := apiCallsMade - succeeded

	// Step 4: 全地点失敗なら分析をfailedで確定して終了
	if succeeded == 0 {
		errMsg := "全地点の順位取得に失敗しました"
		if firstErr := service.FirstError(results); firstErr != nil {
			errMsg = firstErr.Error()
		}
		if markErr := u.analysesRepo.MarkFailed(ctx, analysisID, errMsg, apiCallsMade); markErr != nil {
			return nil, fmt.Errorf("分析の失敗記録に失敗: %w", markErr)
		}
		log.Printf("❌ 全%d地点の順位取得に失敗 (ID: %s): %s", apiCallsMade, analysisID, errMsg)
		return &model.AnalysisResponse{
			AnalysisID:   analysisID,
			Status:       model.StatusFailed,
			GridRows:     grid.Rows,
			GridCols:     grid.Cols,
			APICallsMade: apiCallsMade,
			FailedPoints: failedPoints,
			Businesses:   []model.AggregatedBusiness{},
		}, nil
	}

	// Step 5: 順位レコードをDBに保存
	records := u.aggregator.BuildRankingRecords(analysisID, results)
	if err := u.rankingsRepo.InsertBatch(ctx, records); err != nil {
		u.failAnalysis(ctx, analysisID, fmt.Sprintf("順位レコードの保存に失敗: %v", err), apiCallsMade)
		return nil, fmt.Errorf("順位レコードの保存に失敗: %w", err)
	}

	// Step 6: ビジネス単位に集計
	aggregated := u.aggregator.Aggregate(results)
	businesses := u.aggregator.CollectBusinesses(results)
	rankings := u.aggregator.BuildRankings(results)
	log.Printf("✅ 集計完了 (ビジネス: %d件, 成功: %d/%d地点)", len(businesses), succeeded, apiCallsMade)

	// Step 7: Gemini APIで講評を生成（未設定なら講評なしで続行）
	analysis.BusinessesFound = len(businesses)
	analysis.APICallsMade = apiCallsMade
	insight := ""
	if u.insightRepo != nil {
		log.Printf("🤖 Gemini APIで講評を生成中...")
		generated, insightErr := u.insightRepo.GenerateInsight(ctx, analysis, aggregated)
		if insightErr != nil {
			log.Printf("⚠️ 講評生成に失敗、講評なしで続行: %v", insightErr)
		} else {
			insight = generated
		}
	} else {
		log.Printf("⚠️ GEMINI_API_KEY未設定のため講評生成をスキップ")
	}

	// Step 8: ビューア用の結果ドキュメントを構築してFirestoreに保存
	doc := &model.AnalysisResultDocument{
		AnalysisID: analysisID,
		Metadata:   analysis.ToMetadata(),
		GridPoints: grid.Points,
		Businesses: businesses,
		Rankings:   rankings,
		Bounds:     repoImpl.CreateGridBounds(grid.Points),
		Insight:    insight,
	}
	if err := u.resultRepo.Save(ctx, doc, 48); err != nil { // 48時間TTL
		u.failAnalysis(ctx, analysisID, fmt.Sprintf("分析結果の保存に失敗: %v", err), apiCallsMade)
		return nil, fmt.Errorf("分析結果の保存に失敗: %w", err)
	}

	// Step 9: 結果JSONをGitHubに公開（未設定なら公開なしで続行）
	jsonURL := ""
	jsonFilename := ""
	if u.publishRepo != nil {
		jsonFilename = analysisID + ".json"
		publishedURL, pubErr := u.publishRepo.PublishResult(ctx, jsonFilename, doc)
		if pubErr != nil {
			log.Printf("⚠️ 結果JSONの公開に失敗、公開なしで続行: %v", pubErr)
			jsonFilename = ""
		} else {
			jsonURL = publishedURL
		}
	} else {
		log.Printf("⚠️ GITHUB_TOKEN未設定のため結果JSONの公開をスキップ")
	}

	// Step 10: 分析をcompletedで確定
	if err := u.analysesRepo.MarkCompleted(ctx, analysisID, jsonURL, jsonFilename, len(businesses), apiCallsMade); err != nil {
		return nil, fmt.Errorf("分析の完了記録に失敗: %w", err)
	}

	log.Printf("🎉 順位分析完了 (ID: %s)", analysisID)

	return &model.AnalysisResponse{
		AnalysisID:      analysisID,
		Status:          model.StatusCompleted,
		GridRows:        grid.Rows,
		GridCols:        grid.Cols,
		BusinessesFound: len(businesses),
		APICallsMade:    apiCallsMade,
		FailedPoints:    failedPoints,
		JSONURL:         jsonURL,
		ViewerURL:       u.buildViewerURL(analysisID),
		Insight:         insight,
		Businesses:      aggregated,
	}, nil
}

// GetAnalysisDetail は指定されたanalysis_idの分析レコードと集計結果を取得する
func (u *analysisUseCaseImpl) GetAnalysisDetail(ctx context.Context, analysisID string) (*model.AnalysisDetailResponse, error) {
	log.Printf("📖 分析詳細取得開始 (ID: %s)", analysisID)

	analysis, err := u.analysesRepo.GetByID(ctx, analysisID)
	if err != nil {
		return nil, fmt.Errorf("分析の取得に失敗: %w", err)
	}

	records, err := u.rankingsRepo.GetByAnalysisID(ctx, analysisID)
	if err != nil {
		return nil, fmt.Errorf("順位レコードの取得に失敗: %w", err)
	}

	log.Printf("✅ 分析詳細取得完了 (ID: %s, 順位レコード: %d件)", analysisID, len(records))

	return &model.AnalysisDetailResponse{
		Analysis:   analysis,
		Businesses: u.aggregator.AggregateRecords(records),
		ViewerURL:  u.buildViewerURL(analysisID),
	}, nil
}

// GetAnalysisResult は指定されたanalysis_idのビューア用結果ドキュメントをFirestoreから取得する
func (u *analysisUseCaseImpl) GetAnalysisResult(ctx context.Context, analysisID string) (*model.AnalysisResultDocument, error) {
	log.Printf("📖 分析結果取得開始 (ID: %s)", analysisID)

	doc, err := u.resultRepo.GetByAnalysisID(ctx, analysisID)
	if err != nil {
		return nil, fmt.Errorf("分析結果の取得に失敗: %w", err)
	}

	log.Printf("✅ 分析結果取得完了 (ID: %s)", analysisID)
	return doc, nil
}

// DeleteAnalysis は分析レコードと付随する順位レコード・結果ドキュメントを削除する
func (u *analysisUseCaseImpl) DeleteAnalysis(ctx context.Context, analysisID string) error {
	log.Printf("🗑️ 分析削除開始 (ID: %s)", analysisID)

	// business_rankingsはON DELETE CASCADEで一緒に削除される
	if err := u.analysesRepo.Delete(ctx, analysisID); err != nil {
		return fmt.Errorf("分析の削除に失敗: %w", err)
	}

	// Firestore側は期限切れで既に消えていることがあるため失敗しても削除自体は成功扱い
	if err := u.resultRepo.Delete(ctx, analysisID); err != nil {
		log.Printf("⚠️ 分析結果ドキュメントの削除に失敗: %v", err)
	}

	log.Printf("✅ 分析削除完了 (ID: %s)", analysisID)
	return nil
}

// PreviewGrid は分析を実行せずに計測グリッドだけをGeoJSONで返す
func (u *analysisUseCaseImpl) PreviewGrid(ctx context.Context, req *model.AnalysisRequest) (*geojson.FeatureCollection, error) {
	req.ApplyDefaults()

	grid, err := u.gridGenerator.Generate(req.Center(), req.NumPoints, req.DistanceKm)
	if err != nil {
		return nil, fmt.Errorf("グリッド生成に失敗: %w", err)
	}

	return repoImpl.GridToFeatureCollection(grid), nil
}

// failAnalysis は後続処理の失敗時に分析をfailedへ確定させる（ベストエフォート）
func (u *analysisUseCaseImpl) failAnalysis(ctx context.Context, analysisID, errorMessage string, apiCallsMade int) {
	if err := u.analysesRepo.MarkFailed(ctx, analysisID, errorMessage, apiCallsMade); err != nil {
		log.Printf("⚠️ 分析 %s の失敗記録に失敗: %v", analysisID, err)
	}
}

// buildViewerURL は結果ビューアでこの分析を開くためのURLを組み立てる
func (u *analysisUseCaseImpl) buildViewerURL(analysisID string) string {
	return fmt.Sprintf("%s?data=%s", u.viewerBaseURL, analysisID)
}
