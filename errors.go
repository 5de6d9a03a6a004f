package portfolio

import "errors"

var (
	// ErrOversell is returned when a sale exceeds the shares held.
	ErrOversell = errors.New("sell exceeds shares held")
	// ErrInvalidTransactionType is returned for a transaction kind the ledger does not know.
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	// ErrInvalidTransaction is returned when a transaction fails validation.
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrUnknownStock       = errors.New("unknown stock")
	ErrStockExists        = errors.New("stock already exists")
	ErrStockInUse         = errors.New("stock has transactions")
	// ErrNoPrices is returned when a performance window contains no closing price.
	ErrNoPrices = errors.New("no prices in range")
)
