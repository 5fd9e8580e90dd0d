package repository

import "context"

// テナントごとの単調増加カウンタ。increment-and-readがアトミックで、
// 初回アクセス時は暗黙に作られること（upsert-on-first-use）。
type SequenceGenerator interface {
	NextValue(ctx context.Context, name string, clientID string) (int64, error)
}
