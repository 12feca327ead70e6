package seo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"MEORank-App/internal/domain/model"
)

// fakeDataForSEOServer はDataForSEO APIの応答を模したテストサーバーを起動する
func fakeDataForSEOServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func successResponseJSON() string {
	return `{
		"status_code": 20000,
		"tasks": [{
			"status_code": 20000,
			"result": [{
				"items": [
					{"place_id": "ChIJ_first", "title": "喫茶モカ", "address": "京都市中京区1", "rating": {"value": 4.5, "votes_count": 320}},
					{"place_id": "", "cid": "123456789", "title": "カフェ青山", "address": "京都市中京区2", "rating": {"value": 4.1, "votes_count": 88}},
					{"place_id": "", "cid": "", "title": "広告枠", "address": ""},
					{"place_id": "ChIJ_fourth", "title": "珈琲館ひまわり", "address": "京都市中京区4"}
				]
			}]
		}]
	}`
}

func TestDataForSEOProvider_FetchRankings(t *testing.T) {
	location := model.LatLng{Lat: 35.0116, Lng: 135.7681}

	t.Run("認証ヘッダーとリクエストボディが正しい", func(t *testing.T) {
		var gotAuth string
		var gotContentType string
		var gotBody []byte

		server := fakeDataForSEOServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotContentType = r.Header.Get("Content-Type")
			gotBody, _ = io.ReadAll(r.Body)
			w.Write([]byte(successResponseJSON()))
		})

		provider := NewDataForSEOProviderWithBaseURL("test-login", "test-password", server.URL)
		_, err := provider.FetchRankings(context.Background(), location, "カフェ", 20)
		if err != nil {
			t.Fatalf("FetchRankingsに失敗: %v", err)
		}

		// Basic認証: base64("test-login:test-password")
		wantAuth := "Basic dGVzdC1sb2dpbjp0ZXN0LXBhc3N3b3Jk"
		if gotAuth != wantAuth {
			t.Errorf("Authorizationヘッダーが不正: got %s, want %s", gotAuth, wantAuth)
		}
		if gotContentType != "application/json" {
			t.Errorf("Content-Typeが不正: %s", gotContentType)
		}

		var tasks []dataForSEOTaskRequest
		if err := json.Unmarshal(gotBody, &tasks); err != nil {
			t.Fatalf("リクエストボディのパースに失敗: %v", err)
		}
		if len(tasks) != 1 {
			t.Fatalf("タスク配列は1件のはず: %d件", len(tasks))
		}
		task := tasks[0]
		if task.LanguageCode != "en" {
			t.Errorf("language_codeが不正: %s", task.LanguageCode)
		}
		if task.LocationCoordinate != "35.011600,135.768100" {
			t.Errorf("location_coordinateが不正: %s", task.LocationCoordinate)
		}
		if task.Keyword != "カフェ" {
			t.Errorf("keywordが不正: %s", task.Keyword)
		}
		if task.Depth != 20 {
			t.Errorf("depthが不正: %d", task.Depth)
		}
	})

	t.Run("検索結果をドメインモデルに変換する", func(t *testing.T) {
		server := fakeDataForSEOServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(successResponseJSON()))
		})

		provider := NewDataForSEOProviderWithBaseURL("login", "password", server.URL)
		results, err := provider.FetchRankings(context.Background(), location, "カフェ", 20)
		if err != nil {
			t.Fatalf("FetchRankingsに失敗: %v", err)
		}

		// 識別子を持たない3件目はスキップされ、4件目の順位は詰めずに4のまま
		if len(results) != 3 {
			t.Fatalf("結果は3件のはず: %d件", len(results))
		}

		first := results[0]
		if first.ID != "ChIJ_first" {
			t.Errorf("place_idがIDになるはず: %s", first.ID)
		}
		if first.Title != "喫茶モカ" || first.Address != "京都市中京区1" {
			t.Errorf("店舗情報が不正: %+v", first)
		}
		if first.Position != 1 {
			t.Errorf("1件目の順位が不正: %d", first.Position)
		}
		if first.Rating != 4.5 || first.Reviews != 320 {
			t.Errorf("評価情報が不正: rating=%v reviews=%d", first.Rating, first.Reviews)
		}

		second := results[1]
		if second.ID != "123456789" {
			t.Errorf("place_idが空の場合はcidにフォールバックするはず: %s", second.ID)
		}
		if second.Position != 2 {
			t.Errorf("2件目の順位が不正: %d", second.Position)
		}

		fourth := results[2]
		if fourth.ID != "ChIJ_fourth" {
			t.Errorf("4件目のIDが不正: %s", fourth.ID)
		}
		if fourth.Position != 4 {
			t.Errorf("スキップされた地点があっても返却順の順位を保持するはず: %d", fourth.Position)
		}
		if fourth.Rating != 0 || fourth.Reviews != 0 {
			t.Errorf("評価が無い店舗はゼロ値のはず: rating=%v reviews=%d", fourth.Rating, fourth.Reviews)
		}
	})

	t.Run("タスクや検索結果が空の場合は0件を返す", func(t *testing.T) {
		cases := []struct {
			name string
			body string
		}{
			{"タスクが空", `{"status_code": 20000, "tasks": []}`},
			{"検索結果が空", `{"status_code": 20000, "tasks": [{"status_code": 20000, "result": []}]}`},
			{"アイテムが空", `{"status_code": 20000, "tasks": [{"status_code": 20000, "result": [{"items": []}]}]}`},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				server := fakeDataForSEOServer(t, func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(tc.body))
				})

				provider := NewDataForSEOProviderWithBaseURL("login", "password", server.URL)
				results, err := provider.FetchRankings(context.Background(), location, "カフェ", 20)
				if err != nil {
					t.Fatalf("0件はエラーにしないはず: %v", err)
				}
				if len(results) != 0 {
					t.Errorf("結果は0件のはず: %d件", len(results))
				}
			})
		}
	})

	t.Run("エラーステータスはエラーを返す", func(t *testing.T) {
		server := fakeDataForSEOServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		provider := NewDataForSEOProviderWithBaseURL("bad-login", "bad-password", server.URL)
		_, err := provider.FetchRankings(context.Background(), location, "カフェ", 20)
		if err == nil {
			t.Fatal("エラーステータスでエラーが返るはず")
		}
	})

	t.Run("不正なJSONはエラーを返す", func(t *testing.T) {
		server := fakeDataForSEOServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		})

		provider := NewDataForSEOProviderWithBaseURL("login", "password", server.URL)
		_, err := provider.FetchRankings(context.Background(), location, "カフェ", 20)
		if err == nil {
			t.Fatal("不正なJSONでエラーが返るはず")
		}
	})
}
