package repository

import (
	"MEORank-App/internal/domain/model"
	"MEORank-App/internal/domain/repository"
	"context"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
)

// 結果ドキュメントを保存するコレクション名
const analysisResultsCollection = "analysisResults"

// FirestoreAnalysisResultRepository Firestoreを使用した分析結果ドキュメントリポジトリ
type FirestoreAnalysisResultRepository struct {
	client *firestore.Client
}

// NewFirestoreAnalysisResultRepository 新しいFirestoreAnalysisResultRepositoryインスタンスを作成
func NewFirestoreAnalysisResultRepository(client *firestore.Client) repository.AnalysisResultRepository {
	return &FirestoreAnalysisResultRepository{
		client: client,
	}
}

// Save は結果ドキュメントをTTL付きでFirestoreに保存する
// ドキュメントIDにはanalysis_idをそのまま使用する
func (r *FirestoreAnalysisResultRepository) Save(ctx context.Context, doc *model.AnalysisResultDocument, ttlHours int) error {
	collection := r.client.Collection(analysisResultsCollection)

	// Firestore用の構造体に変換（expireAtを付与）
	firestoreData := doc.ToFirestoreAnalysisResult(ttlHours)

	_, err := collection.Doc(doc.AnalysisID).Set(ctx, firestoreData)
	if err != nil {
		log.Printf("❌ Failed to save analysis result %s: %v", doc.AnalysisID, err)
		return fmt.Errorf("分析結果の保存に失敗しました: %w", err)
	}

	log.Printf("✅ Analysis result saved: %s (expires in %d hours)", doc.AnalysisID, ttlHours)
	return nil
}

// GetByAnalysisID は指定されたanalysis_idの結果ドキュメントをFirestoreから取得する
func (r *FirestoreAnalysisResultRepository) GetByAnalysisID(ctx context.Context, analysisID string) (*model.AnalysisResultDocument, error) {
	doc, err := r.client.Collection(analysisResultsCollection).Doc(analysisID).Get(ctx)
	if err != nil {
		// Firestoreのエラータイプをチェック
		if status := err.Error(); strings.Contains(status, "NotFound") || strings.Contains(status, "not found") {
			return nil, fmt.Errorf("分析結果が見つかりません（有効期限切れまたは無効なID）: %s", analysisID)
		}
		return nil, fmt.Errorf("分析結果の取得に失敗しました: %w", err)
	}

	var firestoreData model.FirestoreAnalysisResult
	if err := doc.DataTo(&firestoreData); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}

	log.Printf("✅ Analysis result retrieved: %s", analysisID)
	return firestoreData.ToAnalysisResultDocument(), nil
}

// Delete は指定されたanalysis_idの結果ドキュメントを削除する
// Firestoreは存在しないドキュメントの削除もエラーにしないため、そのまま成功扱いになる
func (r *FirestoreAnalysisResultRepository) Delete(ctx context.Context, analysisID string) error {
	_, err := r.client.Collection(analysisResultsCollection).Doc(analysisID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("分析結果の削除に失敗しました: %w", err)
	}

	log.Printf("🗑️ Analysis result deleted: %s", analysisID)
	return nil
}
