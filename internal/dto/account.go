package dto

// CreateAccountRequest registers an account in an organization's chart of accounts.
// NormalBalance defaults from the account type.
type CreateAccountRequest struct {
	Code          string `json:"code" binding:"required,max=32"`
	Name          string `json:"name" binding:"required,max=255"`
	AccountType   string `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	NormalBalance string `json:"normalBalance" binding:"omitempty,oneof=DEBIT CREDIT"`
}
