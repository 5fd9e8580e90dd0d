package repository

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 部分更新のmapをgormに渡せる形へ変換する。
// 構造体・スライスはJSONBカラム向けにマーシャルし、スカラーはそのまま通す。
func jsonbUpdates(fields map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		switch v.(type) {
		case nil, string, bool, int, int32, int64, float64, time.Time, *time.Time, decimal.Decimal:
			out[k] = v
			continue
		}

		switch reflect.ValueOf(v).Kind() {
		case reflect.Slice, reflect.Map, reflect.Struct, reflect.Ptr:
			b, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			out[k] = gorm.Expr("?::jsonb", string(b))
		default:
			out[k] = v
		}
	}
	return out, nil
}
