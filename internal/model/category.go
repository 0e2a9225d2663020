package model

import (
	"fmt"
	"slices"
)

// RecordType indicates whether a record is income or expense.
type RecordType string

const (
	// RecordTypeIncome represents money coming in.
	RecordTypeIncome RecordType = "INCOME"
	// RecordTypeExpense represents money going out.
	RecordTypeExpense RecordType = "EXPENSE"
)

// RecordCategory classifies a record within its type.
type RecordCategory string

// Income categories.
const (
	CategoryWage        RecordCategory = "WAGE"
	CategoryOtherIncome RecordCategory = "OTHERS_I"
)

// Expense categories.
const (
	CategoryFood           RecordCategory = "FOOD"
	CategoryTransportation RecordCategory = "TRANSPORTATION"
	CategoryEntertainment  RecordCategory = "ENTERTAINMENT"
	CategoryOtherExpense   RecordCategory = "OTHERS_E"
)

// CategoryRules maps every record type to the categories legal for it.
var CategoryRules = map[RecordType][]RecordCategory{
	RecordTypeIncome: {
		CategoryWage,
		CategoryOtherIncome,
	},
	RecordTypeExpense: {
		CategoryFood,
		CategoryTransportation,
		CategoryEntertainment,
		CategoryOtherExpense,
	},
}

var recordTypes = []RecordType{RecordTypeIncome, RecordTypeExpense}

func init() {
	for _, t := range recordTypes {
		if len(CategoryRules[t]) == 0 {
			panic(fmt.Sprintf("model: no categories declared for record type %s", t))
		}
	}
}

// RecordTypes returns the declared record types in a stable order.
func RecordTypes() []RecordType {
	return slices.Clone(recordTypes)
}

// CategoriesFor returns the categories legal for t. Undeclared types have none.
func CategoriesFor(t RecordType) []RecordCategory {
	return slices.Clone(CategoryRules[t])
}

// IsValidCategory reports whether c belongs to the category set of t.
func IsValidCategory(t RecordType, c RecordCategory) bool {
	return slices.Contains(CategoryRules[t], c)
}
