package core

// Category describes one entry of the static category catalog. The
// catalog is read-only reference data; transaction categories are
// free-form strings that usually, but not necessarily, match an ID here.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

var catalog = map[TransactionType][]Category{
	Income: {
		{ID: "salary", Name: "Salary", Icon: "💼", Color: "#10B981", Description: "Regular employment income"},
		{ID: "freelance", Name: "Freelance", Icon: "💻", Color: "#3B82F6", Description: "Freelance work and side projects"},
		{ID: "investment", Name: "Investment", Icon: "📈", Color: "#F59E0B", Description: "Returns from investments"},
		{ID: "bonus", Name: "Bonus", Icon: "🎁", Color: "#8B5CF6", Description: "Bonuses and incentives"},
		{ID: "other_income", Name: "Other Income", Icon: "💰", Color: "#6B7280", Description: "Other sources of income"},
	},
	Expense: {
		{ID: "food", Name: "Food", Icon: "🍔", Color: "#EF4444", Description: "Groceries and dining"},
		{ID: "rent", Name: "Rent", Icon: "🏠", Color: "#DC2626", Description: "Housing and rent payments"},
		{ID: "utilities", Name: "Utilities", Icon: "⚡", Color: "#F97316", Description: "Electricity, water, gas"},
		{ID: "transportation", Name: "Transportation", Icon: "🚗", Color: "#06B6D4", Description: "Gas, public transit, car maintenance"},
		{ID: "entertainment", Name: "Entertainment", Icon: "🎬", Color: "#EC4899", Description: "Movies, games, hobbies"},
		{ID: "healthcare", Name: "Healthcare", Icon: "⚕️", Color: "#EF4444", Description: "Medical expenses and insurance"},
		{ID: "shopping", Name: "Shopping", Icon: "🛍️", Color: "#A855F7", Description: "Clothing and general shopping"},
		{ID: "other_expense", Name: "Other Expense", Icon: "📝", Color: "#6B7280", Description: "Other miscellaneous expenses"},
	},
	Debt: {
		{ID: "credit_card", Name: "Credit Card", Icon: "💳", Color: "#DC2626", Description: "Credit card debt"},
		{ID: "student_loan", Name: "Student Loan", Icon: "🎓", Color: "#F97316", Description: "Student loan debt"},
		{ID: "personal_loan", Name: "Personal Loan", Icon: "💰", Color: "#EF4444", Description: "Personal loan debt"},
		{ID: "car_loan", Name: "Car Loan", Icon: "🚗", Color: "#DC2626", Description: "Auto loan debt"},
		{ID: "mortgage", Name: "Mortgage", Icon: "🏠", Color: "#DC2626", Description: "Home mortgage debt"},
		{ID: "other_debt", Name: "Other Debt", Icon: "📊", Color: "#6B7280", Description: "Other types of debt"},
	},
	DebtPayment: {
		{ID: "credit_card_payment", Name: "Credit Card Payment", Icon: "💳", Color: "#06B6D4", Description: "Payment towards credit card debt"},
		{ID: "student_loan_payment", Name: "Student Loan Payment", Icon: "🎓", Color: "#06B6D4", Description: "Payment towards student loan"},
		{ID: "personal_loan_payment", Name: "Personal Loan Payment", Icon: "💰", Color: "#06B6D4", Description: "Payment towards personal loan"},
		{ID: "car_loan_payment", Name: "Car Loan Payment", Icon: "🚗", Color: "#06B6D4", Description: "Payment towards car loan"},
		{ID: "mortgage_payment", Name: "Mortgage Payment", Icon: "🏠", Color: "#06B6D4", Description: "Payment towards mortgage"},
		{ID: "other_debt_payment", Name: "Other Debt Payment", Icon: "📊", Color: "#06B6D4", Description: "Payment towards other debt"},
	},
}

// CategoriesFor returns the ordered catalog entries for a transaction type.
func CategoriesFor(t TransactionType) []Category {
	cats := catalog[t]
	out := make([]Category, len(cats))
	copy(out, cats)
	return out
}

// CategoryName resolves a category ID to its display name, falling back
// to the raw ID for categories outside the catalog.
func CategoryName(t TransactionType, id string) string {
	for _, c := range catalog[t] {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}
