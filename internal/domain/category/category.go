// Package category assigns spending categories to transaction counterparties.
package category

import "strings"

// Category is the closed set of spending categories. Consumers pattern-match
// on these values, so adding one is a breaking change.
type Category string

const (
	FoodGrocery   Category = "FOOD_GROCERY"
	Healthcare    Category = "HEALTHCARE"
	Education     Category = "EDUCATION"
	RentsBills    Category = "RENTS_BILLS"
	Travel        Category = "TRAVEL"
	Entertainment Category = "ENTERTAINMENT"
	LoanEMI       Category = "LOAN_EMI"
	Others        Category = "OTHERS"
)

// All lists every category, in the order used by aggregate views.
var All = []Category{
	FoodGrocery, Healthcare, Education, RentsBills,
	Travel, Entertainment, LoanEMI, Others,
}

// IsValid reports whether c is a member of the closed set.
func IsValid(c Category) bool {
	for _, known := range All {
		if c == known {
			return true
		}
	}
	return false
}

// rule maps a keyword list to a category. Rules are evaluated in order and
// the first matching keyword wins; the keyword sets are not disjoint in the
// source data (e.g. shopping names vs travel brands), so the order is part
// of the contract.
type rule struct {
	keywords []string
	category Category
}

var rules = []rule{
	{[]string{"swiggy", "zomato", "bigbasket", "grocery", "supermarket"}, FoodGrocery},
	// Shopping and investment names deliberately resolve to OTHERS; they
	// are listed here so they cannot leak into later buckets.
	{[]string{"amazon", "flipkart", "myntra"}, Others},
	{[]string{"sip", "investment"}, Others},
	{[]string{"apollo", "pharmacy", "medplus", "hospital", "clinic"}, Healthcare},
	{[]string{"byju", "udemy", "coaching", "school", "college"}, Education},
	{[]string{"rent", "electricity", "airtel", "jio", "broadband", "water bill"}, RentsBills},
	{[]string{"emi", "loan", "bajaj fin"}, LoanEMI},
	{[]string{"uber", "ola", "irctc", "makemytrip"}, Travel},
	{[]string{"netflix", "hotstar", "spotify", "bookmyshow"}, Entertainment},
}

// Categorize maps a counterparty name to its category. The match is a
// case-insensitive substring check; an empty or unmatched name yields
// Others, never an error.
func Categorize(counterparty string) Category {
	if counterparty == "" {
		return Others
	}

	name := strings.ToLower(counterparty)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(name, kw) {
				return r.category
			}
		}
	}

	return Others
}
