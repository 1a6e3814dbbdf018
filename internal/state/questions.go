package state

import (
	"sort"

	"github.com/lbatschelet/feelvonroll-admin/internal/platform"
)

// Translation key conventions shared by the question editor and the public
// installation frontend.
func LabelKey(questionKey string) string      { return "questions." + questionKey + ".label" }
func LegendLowKey(questionKey string) string  { return "questions." + questionKey + ".legend_low" }
func LegendHighKey(questionKey string) string { return "questions." + questionKey + ".legend_high" }
func OptionKey(questionKey, optionKey string) string {
	return "options." + questionKey + "." + optionKey
}

// NextSort returns the default sort for a new question: max existing + 10.
func NextSort(questions []platform.Question) int {
	max := 0
	for _, q := range questions {
		if q.Sort > max {
			max = q.Sort
		}
	}
	return max + 10
}

// ReorderQuestions moves the question moveKey to the position after
// targetKey and reassigns every sort by final position index × 10. Input
// order is taken from the sort fields, not slice order.
func ReorderQuestions(questions []platform.Question, moveKey, targetKey string) []platform.Question {
	out := make([]platform.Question, len(questions))
	copy(out, questions)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sort < out[j].Sort })

	moveIdx := -1
	for i, q := range out {
		if q.QuestionKey == moveKey {
			moveIdx = i
			break
		}
	}
	if moveIdx < 0 || moveKey == targetKey {
		return out
	}
	moved := out[moveIdx]
	out = append(out[:moveIdx], out[moveIdx+1:]...)

	targetIdx := -1
	for i, q := range out {
		if q.QuestionKey == targetKey {
			targetIdx = i
			break
		}
	}
	if targetIdx < 0 {
		out = append(out, moved)
	} else {
		out = append(out[:targetIdx+1], append([]platform.Question{moved}, out[targetIdx+1:]...)...)
	}
	for i := range out {
		out[i].Sort = i * 10
	}
	return out
}

// SelectLanguage keeps the previous selection if it still exists, otherwise
// falls back to the first listed language, or "de" when the list is empty.
func SelectLanguage(previous string, languages []platform.Language) string {
	for _, l := range languages {
		if l.Lang == previous {
			return previous
		}
	}
	if len(languages) > 0 {
		return languages[0].Lang
	}
	return "de"
}
