// Package price provides bitcoin quotes in USD for display purposes.
//
// Quotes never enter realized gain computations, they only value the lots
// still held.
package price

import (
	"context"

	"github.com/etnz/satstack"
)

// Oracle provides bitcoin quotes.
type Oracle interface {
	// Current returns the latest price of one bitcoin.
	Current(ctx context.Context) (satstack.Money, error)
	// Historical returns the price of one bitcoin on the given day.
	Historical(ctx context.Context, on satstack.Date) (satstack.Money, error)
}
