// Package seed holds the sample school roster loaded by `gradebook migrate seed`.
package seed

// SubjectGrade is one graded subject.
type SubjectGrade struct {
	Subject string
	Grade   int
}

// Student is one seeded student with their subject grades.
type Student struct {
	FullName  string
	BirthYear int
	Grades    []SubjectGrade
}

// School returns the sample roster in insertion order.
func School() []Student {
	return []Student{
		{"Alice Johnson", 2005, []SubjectGrade{{"Math", 88}, {"English", 92}, {"Science", 85}}},
		{"Brian Smith", 2004, []SubjectGrade{{"Math", 75}, {"History", 83}, {"English", 79}}},
		{"Carla Reyes", 2006, []SubjectGrade{{"Science", 95}, {"Math", 91}, {"Art", 89}}},
		{"Daniel Kim", 2005, []SubjectGrade{{"Math", 84}, {"Science", 88}, {"Physical Education", 93}}},
		{"Eva Thompson", 2003, []SubjectGrade{{"English", 90}, {"History", 85}, {"Math", 88}}},
		{"Felix Nguyen", 2007, []SubjectGrade{{"Science", 72}, {"Math", 78}, {"English", 81}}},
		{"Grace Patel", 2005, []SubjectGrade{{"Art", 94}, {"Science", 87}, {"Math", 90}}},
		{"Henry Lopez", 2004, []SubjectGrade{{"History", 77}, {"Math", 83}, {"Science", 80}}},
		{"Isabella Martinez", 2006, []SubjectGrade{{"English", 96}, {"Math", 89}, {"Art", 92}}},
	}
}
