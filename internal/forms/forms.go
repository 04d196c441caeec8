// Package forms validates submitted HTML forms. Each form type parses raw
// values, trims them, and checks a declarative rule chain per field; the
// first failing rule supplies that field's message. Validation is pure: the
// one check that needs the database (username already taken) lives with the
// caller.
package forms

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/karvembu/tellerops/internal/domain"
)

// Errors maps a field name to the reason it failed validation.
type Errors map[string]string

// Any reports whether any field failed.
func (e Errors) Any() bool { return len(e) > 0 }

// Field returns the message for a field, or "" if it passed.
func (e Errors) Field(name string) string { return e[name] }

// A rule checks one value and returns a message on failure, "" on success.
type rule func(value string) string

func required(value string) string {
	if value == "" {
		return "This field is required."
	}
	return ""
}

func lengthBetween(min, max int) rule {
	return func(value string) string {
		if len(value) < min || len(value) > max {
			return "Must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max) + " characters long."
		}
		return ""
	}
}

func lengthExact(n int) rule {
	return func(value string) string {
		if len(value) != n {
			return "Must be exactly " + strconv.Itoa(n) + " characters long."
		}
		return ""
	}
}

func integer(value string) string {
	if _, err := strconv.ParseInt(value, 10, 64); err != nil {
		return "Must be a whole number."
	}
	return ""
}

func check(e Errors, field, value string, rules ...rule) {
	for _, r := range rules {
		if msg := r(value); msg != "" {
			e[field] = msg
			return
		}
	}
}

// Register carries a registration submission.
type Register struct {
	Username string
	Password string
}

func ParseRegister(v url.Values) Register {
	return Register{
		Username: strings.TrimSpace(v.Get("username")),
		Password: v.Get("password"),
	}
}

func (f Register) Validate() Errors {
	e := Errors{}
	check(e, "username", f.Username, required, lengthBetween(4, 20))
	check(e, "password", f.Password, required, lengthBetween(8, 20))
	return e
}

// Login carries a login submission. Same field rules as registration.
type Login struct {
	Username string
	Password string
}

func ParseLogin(v url.Values) Login {
	return Login{
		Username: strings.TrimSpace(v.Get("username")),
		Password: v.Get("password"),
	}
}

func (f Login) Validate() Errors {
	e := Errors{}
	check(e, "username", f.Username, required, lengthBetween(4, 20))
	check(e, "password", f.Password, required, lengthBetween(8, 20))
	return e
}

// Client carries a new-client submission. Field names match the rendered
// form inputs.
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

func ParseClient(v url.Values) Client {
	return Client{
		SSN:         strings.TrimSpace(v.Get("ssn")),
		FirstName:   strings.TrimSpace(v.Get("fname")),
		LastName:    strings.TrimSpace(v.Get("lname")),
		DateOfBirth: strings.TrimSpace(v.Get("dob")),
		Email:       strings.TrimSpace(v.Get("email")),
		Phone:       strings.TrimSpace(v.Get("phone")),
		Street:      strings.TrimSpace(v.Get("street")),
		City:        strings.TrimSpace(v.Get("city")),
		State:       strings.TrimSpace(v.Get("state")),
	}
}

func (f Client) Validate() Errors {
	e := Errors{}
	check(e, "ssn", f.SSN, required, lengthExact(11))
	check(e, "fname", f.FirstName, required, lengthBetween(3, 50))
	check(e, "lname", f.LastName, required, lengthBetween(3, 50))
	check(e, "dob", f.DateOfBirth, required, lengthBetween(3, 50))
	check(e, "email", f.Email, required, lengthBetween(3, 50))
	check(e, "phone", f.Phone, required, lengthBetween(3, 50))
	check(e, "street", f.Street, required, lengthBetween(3, 50))
	check(e, "city", f.City, required, lengthBetween(3, 50))
	check(e, "state", f.State, required, lengthBetween(3, 50))
	return e
}

// ToClient converts a validated form into the domain record.
func (f Client) ToClient() *domain.Client {
	return &domain.Client{
		SSN:         f.SSN,
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		DateOfBirth: f.DateOfBirth,
		Email:       f.Email,
		Phone:       f.Phone,
		Street:      f.Street,
		City:        f.City,
		State:       f.State,
	}
}

// Transaction carries a transfer-intent submission. Amount and OldBalance
// keep their raw text for re-rendering; the parsed values are only set when
// validation passes.
type Transaction struct {
	AccountNumber      string
	TransferType       string
	AmountRaw          string
	OldBalanceRaw      string
	DestinationAccount string

	Amount     int64
	OldBalance int64
}

func ParseTransaction(v url.Values) Transaction {
	return Transaction{
		AccountNumber:      strings.TrimSpace(v.Get("acc_no")),
		TransferType:       strings.TrimSpace(v.Get("type")),
		AmountRaw:          strings.TrimSpace(v.Get("amount")),
		OldBalanceRaw:      strings.TrimSpace(v.Get("old_bal")),
		DestinationAccount: strings.TrimSpace(v.Get("to_acc")),
	}
}

func (f *Transaction) Validate() Errors {
	e := Errors{}
	check(e, "acc_no", f.AccountNumber, required)
	check(e, "type", f.TransferType, required)
	check(e, "amount", f.AmountRaw, required, integer)
	check(e, "old_bal", f.OldBalanceRaw, required, integer)
	check(e, "to_acc", f.DestinationAccount, required)
	if e.Any() {
		return e
	}
	f.Amount, _ = strconv.ParseInt(f.AmountRaw, 10, 64)
	f.OldBalance, _ = strconv.ParseInt(f.OldBalanceRaw, 10, 64)
	return e
}

// ToRequest converts a validated form into the transient transfer intent.
func (f Transaction) ToRequest() *domain.TransactionRequest {
	return &domain.TransactionRequest{
		AccountNumber:      f.AccountNumber,
		TransferType:       f.TransferType,
		Amount:             f.Amount,
		OldBalance:         f.OldBalance,
		DestinationAccount: f.DestinationAccount,
	}
}
