package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		counterparty string
		want         Category
	}{
		{"Swiggy", FoodGrocery},
		{"ZOMATO", FoodGrocery},
		{"BigBasket Daily", FoodGrocery},
		{"Amazon", Others},
		{"Flipkart Pay", Others},
		{"SIP Investment", Others},
		{"Apollo Pharmacy", Healthcare},
		{"Byju Classes", Education},
		{"Airtel Broadband", RentsBills},
		{"Bajaj Finserv EMI", LoanEMI},
		{"Uber", Travel},
		{"IRCTC", Travel},
		{"Netflix", Entertainment},
		{"Spotify", Entertainment},
		{"XYZ Pvt Ltd", Others},
		{"Rahul Sharma", Others},
		{"", Others},
	}

	for _, tt := range tests {
		t.Run(tt.counterparty, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.counterparty))
		})
	}
}

func TestCategorizeAlwaysYieldsValidCategory(t *testing.T) {
	for _, input := range []string{"", "  ", "random merchant", "übercool", "123"} {
		got := Categorize(input)
		assert.True(t, IsValid(got), "Categorize(%q) = %q is not a known category", input, got)
	}
}

func TestCategorizePriorityOrder(t *testing.T) {
	// "ola" is a travel keyword, but the shopping rule runs first: a
	// counterparty matching an earlier rule must not fall through.
	assert.Equal(t, Others, Categorize("Flipkart Ola Money"))
	// Food keywords beat entertainment keywords.
	assert.Equal(t, FoodGrocery, Categorize("Swiggy x Netflix Combo"))
}
