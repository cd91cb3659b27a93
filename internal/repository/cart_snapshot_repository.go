package repository

import "context"

// カート永続化ポート。
// セッションキー1つにつきJSONを1枠、毎回まるごと上書きする。
// メモリ上のカートが正で、ここはあくまで後追いのミラー
type CartSnapshotRepository interface {
	Save(ctx context.Context, sessionKey string, payload string) error

	//無ければ ErrNotFound
	Load(ctx context.Context, sessionKey string) (string, error)
}
