package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
)

// 缓存键派生。过滤 map 由各可选 query 参数增量拼出来，
// 多一个空值就会把逻辑等价的过滤集裂成两个键，所以哈希前先剥空值、
// 再按键名稳定排序。

// DeriveKey 从归一化后的过滤参数派生确定性缓存键（128-bit 摘要的 hex）。
// 空值键被剥离：{status:"pending", carrier:""} 和 {status:"pending"} 同键；
// 键序无关：{a,b} 和 {b,a} 同键。
func DeriveKey(params map[string]string) string {
	values := url.Values{}
	for k, v := range params {
		if k == "" || v == "" {
			continue
		}
		values.Set(k, v)
	}

	// Encode 按键名排序并转义，天然是稳定序列化
	sum := sha256.Sum256([]byte(values.Encode()))

	return hex.EncodeToString(sum[:16])
}
