package firestore

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// FirestoreClient 結果ドキュメントストアへの接続ラッパー
type FirestoreClient struct {
	client    *firestore.Client
	projectID string
}

// NewFirestoreClient 新しいFirestoreクライアントを作成
// Cloud Run上ではデフォルト認証、ローカルではサービスアカウントキーを優先する
func NewFirestoreClient(ctx context.Context, projectID string) (*FirestoreClient, error) {
	client, err := firestore.NewClient(ctx, projectID, resolveClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("Firestoreクライアントの初期化に失敗: %w", err)
	}

	log.Printf("✅ Firestore client initialized for project: %s", projectID)
	return &FirestoreClient{client: client, projectID: projectID}, nil
}

// resolveClientOptions 実行環境に応じた認証オプションを返す
func resolveClientOptions() []option.ClientOption {
	// Cloud Run環境ではサービスアカウントが割り当てられるためデフォルト認証を使う
	if os.Getenv("K_SERVICE") != "" || os.Getenv("PORT") != "" {
		log.Printf("☁️ Cloud Run環境: デフォルト認証を使用")
		return nil
	}

	credentialsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if credentialsFile == "" {
		credentialsFile = "meorank-firestore-key.json"
	}

	if _, err := os.Stat(credentialsFile); err != nil {
		log.Printf("⚠️ Credentials file not found: %s, trying with default authentication", credentialsFile)
		return nil
	}

	log.Printf("📄 Using credentials file: %s", credentialsFile)
	return []option.ClientOption{option.WithCredentialsFile(credentialsFile)}
}

// Close 接続を閉じる
func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}

// GetClient Firestoreクライアントを取得
func (fc *FirestoreClient) GetClient() *firestore.Client {
	return fc.client
}

// HealthCheck 結果ドキュメントストアへの疎通を確認する
// ドキュメントが無いのは正常（NotFound）として扱い、接続エラーのみ失敗にする
func (fc *FirestoreClient) HealthCheck(ctx context.Context) error {
	if fc.client == nil {
		return fmt.Errorf("Firestoreクライアントが初期化されていません")
	}

	_, err := fc.client.Collection("healthcheck").Doc("ping").Get(ctx)
	if err != nil {
		if status := err.Error(); strings.Contains(status, "NotFound") || strings.Contains(status, "not found") {
			return nil
		}
		return fmt.Errorf("Firestoreへの接続確認に失敗 (project: %s): %w", fc.projectID, err)
	}
	return nil
}
