package domain

// User is a credential record for a bank operator. PasswordHash holds a
// salted bcrypt digest; the plaintext password is never stored.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
}

// Client is a customer record backed by the pre-existing clients table.
// SSN acts as the natural identifier.
type Client struct {
	SSN         string
	FirstName   string
	LastName    string
	DateOfBirth string
	Email       string
	Phone       string
	Street      string
	City        string
	State       string
}

// TransactionRequest captures a submitted transfer intent. It is validated
// and discarded; nothing here is ever applied to a stored balance.
type TransactionRequest struct {
	AccountNumber      string
	TransferType       string
	Amount             int64
	OldBalance         int64
	DestinationAccount string
}
