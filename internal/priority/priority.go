package priority

import "strings"

// 告警优先级归一化。两套来源：操作员在工单上打的 1~5 数值档，
// 以及按拖延天数推算的默认档。操作员判断一经给出就覆盖推算值，
// 但无法识别的脏值静默降级为推算值，保证每条告警都有优先级。

// Priority 四级优先级
type Priority string

const (
	Low      Priority = "low"
	Medium   Priority = "medium"
	High     Priority = "high"
	Critical Priority = "critical"
)

// Rank 排序权重，critical 最高
func (p Priority) Rank() int {
	switch p {
	case Critical:
		return 4
	case High:
		return 3
	case Medium:
		return 2
	case Low:
		return 1
	default:
		return 0
	}
}

// Parse 校验过滤参数里的优先级标签
func Parse(s string) (Priority, bool) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case Low:
		return Low, true
	case Medium:
		return Medium, true
	case High:
		return High, true
	case Critical:
		return Critical, true
	}
	return "", false
}

// CalculateFromDelay 按拖延天数推算默认优先级
func CalculateFromDelay(daysDelayed int) Priority {
	switch {
	case daysDelayed <= 3:
		return Low
	case daysDelayed <= 7:
		return Medium
	case daysDelayed <= 15:
		return High
	default:
		return Critical
	}
}

type rawKind int

const (
	rawAbsent rawKind = iota
	rawInt
	rawLabel
)

// Raw 边界处的标记联合：数值档、枚举标签或缺省。
// 避免在各调用点散落 int/string 分支判断。
type Raw struct {
	kind  rawKind
	num   int
	label string
}

func Absent() Raw {
	return Raw{kind: rawAbsent}
}

func FromInt(n int) Raw {
	return Raw{kind: rawInt, num: n}
}

func FromIntPtr(n *int) Raw {
	if n == nil {
		return Absent()
	}
	return FromInt(*n)
}

func FromLabel(s string) Raw {
	return Raw{kind: rawLabel, label: s}
}

// Normalize 把异构优先级压到统一四级档。
// 操作员档位比推算档粗：1→low 2→medium 3→high ≥4→critical。
func Normalize(raw Raw, daysDelayed int) Priority {
	switch raw.kind {
	case rawInt:
		switch {
		case raw.num <= 0:
			return CalculateFromDelay(daysDelayed)
		case raw.num == 1:
			return Low
		case raw.num == 2:
			return Medium
		case raw.num == 3:
			return High
		default:
			return Critical
		}
	case rawLabel:
		if p, ok := Parse(raw.label); ok {
			return p
		}
		return CalculateFromDelay(daysDelayed)
	default:
		return CalculateFromDelay(daysDelayed)
	}
}
