package student

import (
	"strings"
	"unicode"

	"github.com/alem-hub/gradebook/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECT: NAME
// ══════════════════════════════════════════════════════════════════════════════

// Name - нормализованное отображаемое имя студента ("Jane Doe").
// Нулевое значение невалидно; создаётся только через ParseName.
type Name struct {
	display string
}

// ParseName проверяет сырое имя и приводит его к каноническому виду:
// обрезка пробелов, разбиение по пробельным символам, заглавная первая
// буква каждого слова, склейка через один пробел.
//
// Допустимы только буквы, пробел (U+0020), дефис и апостроф.
func ParseName(raw string) (Name, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Name{}, shared.ErrEmptyName
	}

	tokens := strings.Fields(trimmed)
	for _, token := range tokens {
		if strings.IndexFunc(token, unicode.IsDigit) >= 0 {
			return Name{}, shared.ErrNameHasDigits
		}
	}

	if strings.IndexFunc(trimmed, isForbiddenNameRune) >= 0 {
		return Name{}, shared.ErrNameInvalidChars
	}

	for i, token := range tokens {
		tokens[i] = capitalize(token)
	}

	return Name{display: strings.Join(tokens, " ")}, nil
}

// MustParseName - как ParseName, но паникует на ошибке. Только для тестов и констант.
func MustParseName(raw string) Name {
	n, err := ParseName(raw)
	if err != nil {
		panic(err)
	}
	return n
}

// String возвращает отображаемую форму имени.
func (n Name) String() string {
	return n.display
}

// Key возвращает ключ идентичности: нормализованное имя в нижнем регистре.
func (n Name) Key() string {
	return strings.ToLower(n.display)
}

// IsZero сообщает, что имя не было создано через ParseName.
func (n Name) IsZero() bool {
	return n.display == ""
}

// NormalizeKey приводит произвольный ввод к ключу идентичности без валидации
// символов. Используется для поиска: "  JANE   doe " -> "jane doe".
func NormalizeKey(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

// Внутри имени разрешён только обычный пробел: табуляция и NBSP отклоняются.
func isForbiddenNameRune(r rune) bool {
	if unicode.IsLetter(r) {
		return false
	}
	return r != ' ' && r != '-' && r != '\''
}

// capitalize: первая руна в title case, остальные в нижнем регистре.
func capitalize(token string) string {
	runes := []rune(token)
	runes[0] = unicode.ToTitle(runes[0])
	for i := 1; i < len(runes); i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
