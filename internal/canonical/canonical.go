// Package canonical 实现展示名到规范化名的映射，身份归并的唯一依据。
package canonical

import (
	"regexp"
	"strings"
)

var (
	nonAlphaNum = regexp.MustCompile(`[^0-9A-Za-z\s\p{L}]+`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// editionSuffixes 从规范化名尾部剥离的版本后缀（本身已是规范化形式）。
// 长的排前面，"digital deluxe edition" 要先于 "deluxe edition" 命中。
var editionSuffixes = []string{
	"game of the year edition",
	"digital deluxe edition",
	"collectors edition",
	"anniversary edition",
	"definitive edition",
	"enhanced edition",
	"complete edition",
	"standard edition",
	"ultimate edition",
	"premium edition",
	"special edition",
	"deluxe edition",
	"gold edition",
	"goty edition",
	"goty",
}

// Canonicalize 展示名 → 规范化名：小写、去标点、压空白、剥版本后缀。
// 纯函数且确定，不做任何外部查询——身份归并必须可审计，
// 同一个输入在任何时刻都得出同一个输出。
func Canonicalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlphaNum.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	// 后缀可能叠加（"foo goty deluxe edition"），循环剥到剥不动为止；
	// 名字本身就是后缀词时不能剥成空串
	for {
		stripped := false
		for _, suffix := range editionSuffixes {
			if s != suffix && strings.HasSuffix(s, " "+suffix) {
				s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}
	return s
}
