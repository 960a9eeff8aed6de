package utils

import "strings"

// SanitizeSearchTerm 剥掉自由文本搜索词里的引号和分号。
// 仓库层全部走绑定参数，这里只是纵深防御的一道。
func SanitizeSearchTerm(s string) string {
	replacer := strings.NewReplacer(
		"'", "",
		`"`, "",
		";", "",
		"`", "",
	)
	return strings.TrimSpace(replacer.Replace(s))
}
