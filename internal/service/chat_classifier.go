package service

import (
	"strings"

	"github.com/healthmate/healthmate-api/internal/domain"
)

type topic struct {
	category string
	terms    []string
}

// topics are checked in order; the first match wins. Each topic carries its
// English and Vietnamese terms.
var topics = []topic{
	{domain.CategoryStress, []string{"stress", "anxiety", "anxious", "pressure", "worried", "căng thẳng", "lo lắng", "áp lực"}},
	{domain.CategorySleep, []string{"sleep", "insomnia", "nap", "ngủ", "mất ngủ", "khó ngủ", "giấc ngủ"}},
	{domain.CategoryNutrition, []string{"eat", "diet", "nutrition", "food", "lose weight", "gain weight", "ăn", "dinh dưỡng", "thức ăn", "chế độ ăn", "giảm cân", "tăng cân"}},
	{domain.CategoryExercise, []string{"exercise", "workout", "training", "gym", "tập", "thể dục", "vận động"}},
	{domain.CategoryDisease, []string{"pain", "sick", "illness", "symptom", "cold", "flu", "fever", "đau", "bệnh", "triệu chứng", "cảm", "cúm", "sốt"}},
}

// keywordList is every topic term followed by the hydration and medication terms
var keywordList = func() []string {
	var list []string
	for _, t := range topics {
		list = append(list, t.terms...)
	}
	return append(list,
		"water", "drink water", "thirst", "medicine", "medication",
		"nước", "uống nước", "khát", "thuốc", "uống thuốc",
	)
}()

// DetectCategory classifies a question by the first topic whose term it contains
func DetectCategory(question string) string {
	q := strings.ToLower(question)
	for _, t := range topics {
		for _, term := range t.terms {
			if strings.Contains(q, term) {
				return t.category
			}
		}
	}
	return domain.CategoryGeneral
}

// DetectKeywords returns the known terms found in a question, in list order
func DetectKeywords(question string) []string {
	q := strings.ToLower(question)
	found := []string{}
	seen := make(map[string]bool)
	for _, kw := range keywordList {
		if !seen[kw] && strings.Contains(q, kw) {
			seen[kw] = true
			found = append(found, kw)
		}
	}
	return found
}
