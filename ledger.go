package satstack

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Ledger represents the list of transactions of a portfolio.
//
// Transactions are kept in insertion order, which is the ledger order used to
// break ties between transactions of the same day.
type Ledger struct {
	transactions []Transaction
	index        map[string]int // position of each transaction by id.
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{index: make(map[string]int)}
}

// NewID returns a new random transaction id.
func NewID() string { return uuid.NewString() }

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Add validates tx and appends it to the ledger. A transaction without id
// receives a new one. The stored transaction is returned.
func (l *Ledger) Add(tx Transaction) (Transaction, error) {
	if tx.ID == "" {
		tx.ID = NewID()
	}
	if err := tx.Validate(); err != nil {
		return tx, err
	}
	if l.index == nil {
		l.index = make(map[string]int)
	}
	if _, exists := l.index[tx.ID]; exists {
		return tx, &ValidationError{TxID: tx.ID, Err: ErrDuplicateID}
	}
	l.index[tx.ID] = len(l.transactions)
	l.transactions = append(l.transactions, tx)
	return tx, nil
}

// Append adds transactions without validating them.
//
// It is meant for decoders: invalid transactions are kept so that they are
// reported by the computations rather than lost.
func (l *Ledger) Append(txs ...Transaction) {
	if l.index == nil {
		l.index = make(map[string]int)
	}
	for _, tx := range txs {
		if _, exists := l.index[tx.ID]; !exists && tx.ID != "" {
			l.index[tx.ID] = len(l.transactions)
		}
		l.transactions = append(l.transactions, tx)
	}
}

// Get returns the transaction with the given id.
func (l *Ledger) Get(id string) (Transaction, bool) {
	i, ok := l.index[id]
	if !ok {
		return Transaction{}, false
	}
	return l.transactions[i], true
}

// Update replaces the transaction with the same id, keeping its position.
func (l *Ledger) Update(tx Transaction) error {
	i, ok := l.index[tx.ID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrTransactionNotFound, tx.ID)
	}
	if err := tx.Validate(); err != nil {
		return err
	}
	l.transactions[i] = tx
	return nil
}

// Remove deletes the transaction with the given id.
func (l *Ledger) Remove(id string) error {
	i, ok := l.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrTransactionNotFound, id)
	}
	l.transactions = slices.Delete(l.transactions, i, i+1)
	l.reindex()
	return nil
}

func (l *Ledger) reindex() {
	clear(l.index)
	for i, tx := range l.transactions {
		if _, exists := l.index[tx.ID]; !exists && tx.ID != "" {
			l.index[tx.ID] = i
		}
	}
}

// List returns a copy of the transactions in ledger order.
func (l *Ledger) List() []Transaction {
	return slices.Clone(l.transactions)
}

// Years returns the years with at least one transaction, ascending.
func (l *Ledger) Years() []int { return Years(l.transactions) }
