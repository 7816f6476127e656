package book

// OptionalInt distinguishes "not provided" from an explicit null.
// Set=false leaves the field alone; Set=true with a nil Value clears it.
type OptionalInt struct {
	Set   bool
	Value *int
}

// SetInt returns an OptionalInt holding v.
func SetInt(v int) OptionalInt {
	return OptionalInt{Set: true, Value: &v}
}

// ClearInt returns an OptionalInt that clears the field.
func ClearInt() OptionalInt {
	return OptionalInt{Set: true}
}

// Patch is a partial update. Nil string pointers are left unchanged.
type Patch struct {
	Title  *string
	Author *string
	Year   OptionalInt
}

type patchRules struct {
	Title  *string `validate:"omitnil,min=1"`
	Author *string `validate:"omitnil,min=1"`
	Year   *int    `validate:"omitnil,gte=0"`
}

// Validate checks only the fields that are present.
func (p Patch) Validate() error {
	rules := patchRules{Title: p.Title, Author: p.Author}
	if p.Year.Set {
		rules.Year = p.Year.Value
	}
	if err := validatorInstance().Struct(rules); err != nil {
		return validationError("Patch", err)
	}
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && !p.Year.Set
}
