package student

import (
	"math"
	"strconv"
	"strings"

	"github.com/alem-hub/gradebook/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECT: GRADE
// ══════════════════════════════════════════════════════════════════════════════

const (
	// MinGrade - нижняя граница оценки (включительно).
	MinGrade Grade = 0

	// MaxGrade - верхняя граница оценки (включительно).
	MaxGrade Grade = 100

	// DoneSentinel завершает ввод оценок (без учёта регистра).
	DoneSentinel = "done"
)

// Grade - одна оценка в диапазоне [0, 100]. Допускаются дробные значения.
type Grade float64

// ParseGrade разбирает текстовый токен в оценку.
func ParseGrade(token string) (Grade, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, shared.ErrNotANumber
	}

	g := Grade(value)
	if !g.IsValid() {
		return 0, shared.ErrOutOfRange
	}

	return g, nil
}

// IsValid проверяет диапазон [MinGrade, MaxGrade].
func (g Grade) IsValid() bool {
	return g >= MinGrade && g <= MaxGrade
}

// Float64 возвращает значение оценки.
func (g Grade) Float64() float64 {
	return float64(g)
}

// String форматирует оценку без лишних нулей: 95, 87.5.
func (g Grade) String() string {
	return strconv.FormatFloat(float64(g), 'f', -1, 64)
}

// IsSentinel сообщает, что токен завершает ввод оценок.
func IsSentinel(token string) bool {
	return strings.EqualFold(strings.TrimSpace(token), DoneSentinel)
}

// Mean - среднее арифметическое. ok=false для пустой последовательности.
func Mean(grades []Grade) (mean float64, ok bool) {
	if len(grades) == 0 {
		return 0, false
	}

	var sum float64
	for _, g := range grades {
		sum += float64(g)
	}
	return sum / float64(len(grades)), true
}
