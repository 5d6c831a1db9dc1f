package domain

// Account is one credential pair from the account list. Accounts are
// processed and reported in the order they were supplied; identifiers are
// not required to be unique.
type Account struct {
	Email    string
	Password string
}
