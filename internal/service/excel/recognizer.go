package excel

import (
	"sort"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
	"github.com/Deeps-444/Attendance-Tracker/internal/parser"
)

// Recognizer 工作簿 sheet 识别器
type Recognizer struct {
	sheets *parser.SheetRecognizer
}

// NewRecognizer 创建识别器
func NewRecognizer() *Recognizer {
	return &Recognizer{sheets: parser.NewSheetRecognizer()}
}

// RecognizeWorkbook 识别工作簿内每个 sheet 的类型
func (r *Recognizer) RecognizeWorkbook(sheets []Sheet) map[string]model.SheetRecognition {
	results := make(map[string]model.SheetRecognition, len(sheets))
	for _, s := range sheets {
		results[s.Name] = r.sheets.Recognize(s.Name, s.Grid)
	}
	return results
}

// Candidates 按得分倒序返回指定类型的 sheet；同分时保持工作簿顺序
func (r *Recognizer) Candidates(sheets []Sheet, want model.SheetType) []Sheet {
	type scored struct {
		sheet Sheet
		score float64
	}
	var list []scored
	for _, s := range sheets {
		res := r.sheets.Recognize(s.Name, s.Grid)
		if res.Type == want {
			list = append(list, scored{sheet: s, score: res.Score})
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].score > list[j].score })

	out := make([]Sheet, 0, len(list))
	for _, it := range list {
		out = append(out, it.sheet)
	}
	return out
}

// PickRosterSheet 选择得分最高的排班矩阵 sheet
func (r *Recognizer) PickRosterSheet(sheets []Sheet) (Sheet, bool) {
	c := r.Candidates(sheets, model.SheetTypeRoster)
	if len(c) == 0 {
		return Sheet{}, false
	}
	return c[0], true
}
