package treasury

import (
	"context"
	"net/url"

	"github.com/valyala/fasthttp"
)

// AccountIter walks a paginated account listing, fetching pages on demand.
//
//	it := client.ListInternalAccounts(treasury.AccountFilter{PaymentType: treasury.PaymentTypeACH})
//	for it.Next(ctx) {
//		acct := it.Account()
//	}
//	if err := it.Err(); err != nil { ... }
type AccountIter struct {
	client *Client
	path   string
	query  url.Values

	page    []Account
	idx     int
	cursor  string
	done    bool
	current Account
	err     error
}

// Next advances to the next account, fetching another page when needed.
func (it *AccountIter) Next(ctx context.Context) bool {
	for {
		if it.idx < len(it.page) {
			it.current = it.page[it.idx]
			it.idx++
			return true
		}
		if it.done || it.err != nil {
			return false
		}
		it.fetch(ctx)
	}
}

// Account returns the account Next advanced to.
func (it *AccountIter) Account() Account { return it.current }

// Err returns the first error encountered while paging.
func (it *AccountIter) Err() error { return it.err }

func (it *AccountIter) fetch(ctx context.Context) {
	query := url.Values{}
	for k, v := range it.query {
		query[k] = v
	}
	if it.cursor != "" {
		query.Set("after_cursor", it.cursor)
	}

	var page []Account
	next, err := it.client.do(ctx, fasthttp.MethodGet, it.path, query, nil, &page)
	if err != nil {
		it.err = err
		return
	}

	// A repeated cursor would page forever.
	if next == "" || next == it.cursor {
		it.done = true
	}
	it.cursor = next
	it.page = page
	it.idx = 0
}

// Drain collects every remaining account. Any page failure discards the partial list.
func Drain(ctx context.Context, it *AccountIter) ([]Account, error) {
	accounts := make([]Account, 0)
	for it.Next(ctx) {
		accounts = append(accounts, it.Account())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}
