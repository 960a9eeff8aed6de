package utils

import (
	"strings"
	"time"
)

// 数仓的日期列是自由格式文本，ETL 来源不同格式就不同。
// 依次尝试各布局，解析不动就算了，调用方自行回退原始串。
var dateLayouts = []string{
	"02/01/2006", // DD/MM/YYYY
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseFlexibleDate 解析混杂格式的日期串
func ParseFlexibleDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// NormalizeDate 归一化为 ISO 日期输出；解析失败保留原串
func NormalizeDate(s string) string {
	if t, ok := ParseFlexibleDate(s); ok {
		return t.Format("2006-01-02")
	}
	return s
}

// DaysOverdue 计算截止日期距 now 过了多少天，未到期为 0
func DaysOverdue(deadline, now time.Time) int {
	days := int(now.Sub(deadline).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
