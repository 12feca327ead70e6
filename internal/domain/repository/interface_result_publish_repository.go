package repository

import (
	"context"

	"MEORank-App/internal/domain/model"
)

// ResultPublishRepository は結果JSONの外部公開の責務を持つリポジトリインターフェース
type ResultPublishRepository interface {
	// PublishResult は結果ドキュメントをJSONとして公開し、公開URLを返す
	// 同名ファイルが既に存在する場合は上書き更新する
	PublishResult(ctx context.Context, filename string, doc *model.AnalysisResultDocument) (string, error)
}
