// Package student содержит доменную модель студента журнала оценок.
//
// Пакет определяет:
//
//   - Value Objects: Name (нормализованное имя и ключ идентичности), Grade
//   - Сущность Student: имя и оценки в порядке ввода
//
// # Имена
//
// Имя проходит проверку и нормализацию в ParseName:
//
//	name, err := ParseName("  jane   DOE ")
//	// name.String() == "Jane Doe"
//	// name.Key()    == "jane doe"
//
// Нормализация идемпотентна: ParseName(name.String()) возвращает то же имя.
// Два ввода с одинаковым ключом - это один и тот же студент.
//
// # Оценки
//
// ParseGrade принимает целые и дробные значения в диапазоне [0, 100]:
//
//	g, err := ParseGrade("87.5")
//	if errors.Is(err, shared.ErrOutOfRange) {
//	    // оценка отброшена, ввод продолжается
//	}
//
// Токен "done" (без учёта регистра) завершает ввод, см. IsSentinel.
package student
