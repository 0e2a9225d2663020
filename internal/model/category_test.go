package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryRules_Total(t *testing.T) {
	for _, typ := range RecordTypes() {
		assert.NotEmpty(t, CategoriesFor(typ), "record type %s has no categories", typ)
	}
	assert.Len(t, CategoryRules, len(RecordTypes()))
}

func TestCategoriesFor(t *testing.T) {
	assert.Equal(t, []RecordCategory{CategoryWage, CategoryOtherIncome}, CategoriesFor(RecordTypeIncome))
	assert.Equal(t, []RecordCategory{
		CategoryFood,
		CategoryTransportation,
		CategoryEntertainment,
		CategoryOtherExpense,
	}, CategoriesFor(RecordTypeExpense))
	assert.Empty(t, CategoriesFor("TRANSFER"))

	got := CategoriesFor(RecordTypeIncome)
	got[0] = CategoryFood
	assert.Equal(t, CategoryWage, CategoryRules[RecordTypeIncome][0], "callers must not mutate the table")
}

func TestIsValidCategory(t *testing.T) {
	assert.True(t, IsValidCategory(RecordTypeIncome, CategoryWage))
	assert.True(t, IsValidCategory(RecordTypeExpense, CategoryEntertainment))
	assert.False(t, IsValidCategory(RecordTypeIncome, CategoryFood))
	assert.False(t, IsValidCategory(RecordTypeExpense, CategoryOtherIncome))
	assert.False(t, IsValidCategory("", ""))
}
