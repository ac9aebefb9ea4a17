package errors

var (
	ErrBadCurrency = &DomainError{
		Code:    "BAD_CURRENCY",
		Message: "unsupported currency",
	}
	ErrBadParameter = &DomainError{
		Code:    "BAD_PARAMETER",
		Message: "amount sign does not match posting type",
	}
	ErrInsufficientFunds = &DomainError{
		Code:    "INSUFFICIENT_FUNDS",
		Message: "insufficient funds",
	}
	ErrNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "record not found",
	}
)
