package deviation

import (
	"fmt"
	"strings"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
	"github.com/Deeps-444/Attendance-Tracker/internal/parser"
)

// CategoryRule 班次代码 → 类别 的一条规则
//
// Codes 为精确匹配；Contains 为子串匹配；AnyDigit 表示代码中出现数字即命中。
type CategoryRule struct {
	Category model.ShiftCategory `toml:"category" json:"category"`
	Codes    []string            `toml:"codes" json:"codes,omitempty"`
	Contains []string            `toml:"contains" json:"contains,omitempty"`
	AnyDigit bool                `toml:"any_digit" json:"anyDigit,omitempty"`
}

func (r CategoryRule) match(code string) bool {
	for _, c := range r.Codes {
		if code == strings.ToUpper(strings.TrimSpace(c)) {
			return true
		}
	}
	for _, sub := range r.Contains {
		sub = strings.ToUpper(strings.TrimSpace(sub))
		if sub != "" && strings.Contains(code, sub) {
			return true
		}
	}
	return r.AnyDigit && parser.HasDigit(code)
}

// Vocabulary 有序的班次分类规则，先命中者生效
type Vocabulary struct {
	Rules []CategoryRule `toml:"rules" json:"rules"`
}

// DefaultVocabulary 默认班次词表
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Rules: []CategoryRule{
			{Category: model.CategoryWorking, Codes: []string{"M", "A", "N", "PH"}},
			{Category: model.CategoryOff, Codes: []string{"WO", "NO"}},
			{Category: model.CategoryLeave, Codes: []string{"L", "AB", "CO"}},
			{Category: model.CategorySpecial, Contains: []string{"BDAY", "8AM"}, AnyDigit: true},
		},
	}
}

// Categorize 计算班次类别，未命中任何规则时为 Other
func (v Vocabulary) Categorize(code string) model.ShiftCategory {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, rule := range v.Rules {
		if rule.match(code) {
			return rule.Category
		}
	}
	return model.CategoryOther
}

// Validate 检查规则类别是否合法
func (v Vocabulary) Validate() []string {
	errs := make([]string, 0)
	for i, rule := range v.Rules {
		if !rule.Category.IsValid() {
			errs = append(errs, fmt.Sprintf("rule %d: unknown category %q", i, rule.Category))
		}
		if len(rule.Codes) == 0 && len(rule.Contains) == 0 && !rule.AnyDigit {
			errs = append(errs, fmt.Sprintf("rule %d: matches nothing", i))
		}
	}
	return errs
}
