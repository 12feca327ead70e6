package ai

import (
	"MEORank-App/internal/domain/helper"
	"MEORank-App/internal/domain/model"
	"MEORank-App/internal/domain/repository"
	"context"
	"fmt"
	"log"
	"strings"
)

// geminiInsightRepository はGemini APIを使用してInsightGenerationRepositoryを実装
type geminiInsightRepository struct {
	client *GeminiClient
}

// NewGeminiInsightRepository は新しいgeminiInsightRepositoryインスタンスを作成
func NewGeminiInsightRepository(client *GeminiClient) repository.InsightGenerationRepository {
	return &geminiInsightRepository{
		client: client,
	}
}

// GenerateInsight は集計済みの順位サマリーからMEO観点の講評文を生成する
// API呼び出しに失敗した場合はフォールバック文を返す（エラーにはしない）
func (g *geminiInsightRepository) GenerateInsight(ctx context.Context, analysis *model.Analysis, businesses []model.AggregatedBusiness) (string, error) {
	prompt := g.buildInsightPrompt(analysis, businesses)

	log.Printf("🤖 Gemini APIで講評を生成中... (キーワード: %s)", analysis.Keyword)

	insight, err := g.client.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("❌ 講評生成に失敗: %v", err)
		return g.generateFallbackInsight(analysis, businesses), nil
	}

	log.Printf("✅ 講評生成完了 (%d文字)", len([]rune(insight)))
	return strings.TrimSpace(insight), nil
}

// buildInsightPrompt は講評生成用プロンプトを構築
func (g *geminiInsightRepository) buildInsightPrompt(analysis *model.Analysis, businesses []model.AggregatedBusiness) string {
	tierCounts := helper.CountByTier(businesses)

	// 上位のビジネスを最大5件列挙する（集計結果はbest_rank昇順）
	lines := make([]string, 0, 5)
	for i, b := range businesses {
		if i >= 5 {
			break
		}
		lines = append(lines, fmt.Sprintf("- %s: 最良%d位 / 最悪%d位 / 平均%.1f位 (%d地点で表示)",
			b.Name, b.BestRank, b.WorstRank, b.AvgRank, b.PointsPresent))
	}

	prompt := fmt.Sprintf(`以下はGoogleマップのローカル検索順位をグリッド状の複数地点で計測した結果です。MEO（マップ検索最適化）の観点から講評を生成してください：

【計測条件】
検索キーワード: %s
計測地点数: %d地点（%d行×%d列、間隔%.1fkm）

【集計結果】
確認できたビジネス: %d件
3位以内に入った店舗: %d件 / 10位以内: %d件 / 20位以内: %d件

【上位ビジネス】
%s

【出力フォーマット】
[200-300文字の講評]

【要件】
- エリア内での競争状況を簡潔に述べる
- 上位店舗の強さ（表示地点数や順位の安定度）に言及する
- 専門用語を避けた読みやすい日本語
- 箇条書きではなく文章で出力してください。`,
		analysis.Keyword,
		analysis.NumPoints,
		analysis.GridRows,
		analysis.GridCols,
		analysis.DistanceKm,
		len(businesses),
		tierCounts[model.TierTop],
		tierCounts[model.TierTop]+tierCounts[model.TierMid],
		tierCounts[model.TierTop]+tierCounts[model.TierMid]+tierCounts[model.TierLow],
		strings.Join(lines, "\n"))

	return prompt
}

// generateFallbackInsight はAPI呼び出しが失敗した場合のフォールバック講評を生成
func (g *geminiInsightRepository) generateFallbackInsight(analysis *model.Analysis, businesses []model.AggregatedBusiness) string {
	if len(businesses) == 0 {
		return fmt.Sprintf("「%s」の検索順位を%d地点で計測しましたが、計測範囲内で表示されるビジネスは確認できませんでした。",
			analysis.Keyword, analysis.NumPoints)
	}

	tierCounts := helper.CountByTier(businesses)
	best := helper.FindBestRanked(businesses)

	return fmt.Sprintf("「%s」の検索順位を%d地点で計測し、%d件のビジネスを確認しました。3位以内に表示された店舗は%d件です。最も順位が良かったのは%sで、%d地点で表示され最良%d位でした。",
		analysis.Keyword, analysis.NumPoints, len(businesses),
		tierCounts[model.TierTop], best.Name, best.PointsPresent, best.BestRank)
}
