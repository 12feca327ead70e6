package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"MEORank-App/internal/application"
	"MEORank-App/internal/database"
	domainrepo "MEORank-App/internal/domain/repository"
	"MEORank-App/internal/domain/service"
	"MEORank-App/internal/handler"
	"MEORank-App/internal/infrastructure/ai"
	infradb "MEORank-App/internal/infrastructure/database"
	"MEORank-App/internal/infrastructure/firestore"
	"MEORank-App/internal/infrastructure/github"
	"MEORank-App/internal/infrastructure/seo"
	"MEORank-App/internal/repository"
	"MEORank-App/internal/usecase"
)

// defaultViewerBaseURL はBASE_URL未指定時の結果ビューアURL
const defaultViewerBaseURL = "https://meorank-app.web.app/"

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	// 必須の環境変数
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseAnonKey := os.Getenv("SUPABASE_ANON_KEY")
	supabaseDBPassword := os.Getenv("SUPABASE_DB_PASSWORD")
	dataForSEOLogin := os.Getenv("DATAFORSEO_LOGIN")
	dataForSEOPassword := os.Getenv("DATAFORSEO_PASSWORD")
	firestoreProjectID := os.Getenv("FIRESTORE_PROJECT_ID")

	if supabaseURL == "" || supabaseAnonKey == "" || supabaseDBPassword == "" ||
		dataForSEOLogin == "" || dataForSEOPassword == "" || firestoreProjectID == "" {
		fmt.Println("⚠️  環境変数が設定されていません:")
		fmt.Println("必要な環境変数:")
		fmt.Println("  - SUPABASE_URL")
		fmt.Println("  - SUPABASE_ANON_KEY")
		fmt.Println("  - SUPABASE_DB_PASSWORD")
		fmt.Println("  - DATAFORSEO_LOGIN")
		fmt.Println("  - DATAFORSEO_PASSWORD")
		fmt.Println("  - FIRESTORE_PROJECT_ID")
		fmt.Println("\n.envファイルを作成するか、環境変数を設定してください")
		log.Fatal("Environment variables not set")
	}

	// Database connections
	fmt.Println("Initializing PostgreSQL client...")
	postgresClient, err := infradb.NewPostgreSQLClientWithRetry(5, 3*time.Second)
	if err != nil {
		log.Fatalf("PostgreSQLクライアント初期化失敗: %v", err)
	}
	defer postgresClient.Close()

	ctx := context.Background()
	if err := postgresClient.EnsureSchema(ctx); err != nil {
		log.Fatalf("スキーマ適用失敗: %v", err)
	}
	fmt.Println("✅ PostgreSQL schema ready!")

	fmt.Println("Initializing Supabase client...")
	supabaseClient, err := database.NewSupabaseClient()
	if err != nil {
		log.Fatalf("Supabaseクライアント初期化失敗: %v", err)
	}

	fmt.Println("Performing Supabase health check...")
	if err := supabaseClient.HealthCheck(); err != nil {
		log.Fatalf("Supabaseヘルスチェック失敗: %v", err)
	}
	fmt.Println("✅ Supabase connection successful!")

	fmt.Println("Initializing Firestore client...")
	firestoreClient, err := firestore.NewFirestoreClient(ctx, firestoreProjectID)
	if err != nil {
		log.Fatalf("Firestoreクライアント初期化失敗: %v", err)
	}
	defer firestoreClient.Close()

	fmt.Println("Performing Firestore health check...")
	if err := firestoreClient.HealthCheck(ctx); err != nil {
		log.Fatalf("Firestoreヘルスチェック失敗: %v", err)
	}
	fmt.Println("✅ Firestore connection successful!")

	// Dependency injection
	searchProvider := seo.NewDataForSEOProvider(dataForSEOLogin, dataForSEOPassword)
	gridGenerator := service.NewGridGeneratorService()
	gridFetcher := service.NewParallelGridFetcher(searchProvider)
	aggregator := service.NewRankingAggregatorService()

	analysesRepo := repository.NewPostgresAnalysesRepository(postgresClient)
	rankingsRepo := repository.NewPostgresRankingsRepository(postgresClient)
	resultRepo := repository.NewFirestoreAnalysisResultRepository(firestoreClient.GetClient())

	// Gemini講評は任意（キー未設定なら講評なしで動く）
	var insightRepo domainrepo.InsightGenerationRepository
	if geminiAPIKey := os.Getenv("GEMINI_API_KEY"); geminiAPIKey != "" {
		geminiClient := ai.NewGeminiClient(geminiAPIKey)
		insightRepo = ai.NewGeminiInsightRepository(geminiClient)
	} else {
		log.Printf("⚠️ GEMINI_API_KEY未設定のため講評生成は無効")
	}

	// GitHub公開は任意（トークン未設定なら公開なしで動く）
	var publishRepo domainrepo.ResultPublishRepository
	githubToken := os.Getenv("GITHUB_TOKEN")
	githubRepo := os.Getenv("GITHUB_REPO")
	if githubToken != "" && githubRepo != "" {
		publishRepo = github.NewGitHubPublisher(githubToken, githubRepo)
	} else {
		log.Printf("⚠️ GITHUB_TOKEN/GITHUB_REPO未設定のため結果JSONの公開は無効")
	}

	viewerBaseURL := os.Getenv("BASE_URL")
	if viewerBaseURL == "" {
		viewerBaseURL = defaultViewerBaseURL
	}

	analysisUseCase := usecase.NewAnalysisUseCase(
		gridGenerator,
		gridFetcher,
		aggregator,
		analysesRepo,
		rankingsRepo,
		resultRepo,
		publishRepo,
		insightRepo,
		viewerBaseURL,
	)
	rerunUseCase := usecase.NewAnalysisRerunUseCase(analysisUseCase, analysesRepo)
	analysisHandler := handler.NewAnalysisHandler(analysisUseCase, rerunUseCase)

	historyRepo := repository.NewSupabaseHistoryRepository(supabaseClient)
	historyService := application.NewHistoryService(historyRepo)
	historyHandler := handler.NewHistoryHandler(historyService)

	// Ginルーターのセットアップ
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "MEORank-App"})
	})

	// Grid Ranking API エンドポイント
	api := r.Group("/api/v1")
	{
		api.POST("/analyses", analysisHandler.PostAnalysis)
		api.GET("/analyses", historyHandler.GetAnalyses)
		api.GET("/analyses/:id", analysisHandler.GetAnalysis)
		api.DELETE("/analyses/:id", analysisHandler.DeleteAnalysis)
		api.GET("/analyses/:id/result", analysisHandler.GetAnalysisResult)
		api.POST("/analyses/:id/rerun", analysisHandler.PostAnalysisRerun)
		api.GET("/grid/preview", analysisHandler.GetGridPreview)
		api.GET("/businesses/:business_id/history", historyHandler.GetBusinessHistory)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("MEORank-App server starting on :%s...\n", port)
	log.Fatal(r.Run(":" + port))
}
