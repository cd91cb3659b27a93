package usecase

import (
	"regexp"
	"strings"
)

var (
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugInvalid = regexp.MustCompile(`[^\w-]+`)
)

// Slugify は名前からURL用のslugを作る。
// 小文字化 → 空白をハイフンに → 英数とハイフン以外を落とす
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	return s
}
