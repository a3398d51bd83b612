package parser

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	floatDayRe   = regexp.MustCompile(`^(\d+)\.0+$`)
	folder       = cases.Fold()
)

// EmployeeKey 由姓名生成关联键：去首尾空白、压缩内部空白、Unicode 大小写折叠
func EmployeeKey(name string) string {
	name = strings.TrimSpace(name)
	name = whitespaceRe.ReplaceAllString(name, " ")
	return folder.String(name)
}

// NormalizeCode 班次代码：去空白并转大写
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ParseDayNumber 解析日期条单元格，仅接受纯数字
//
// xls 读取数值单元格时可能得到 "5.0"，按整数处理。
func ParseDayNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if m := floatDayRe.FindStringSubmatch(s); len(m) == 2 {
		s = m[1]
	}
	if !isAllDigits(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsDigit 仅 ASCII 0-9 视为数字，日期条与班次代码共用
func IsDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// HasDigit 是否包含任意数字
func HasDigit(s string) bool {
	return strings.IndexFunc(s, IsDigit) >= 0
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if !IsDigit(ch) {
			return false
		}
	}
	return true
}

// NormalizeColumnName 规范化列名，去除空白并转大写
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	name = whitespaceRe.ReplaceAllString(name, " ")
	return strings.ToUpper(name)
}

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
