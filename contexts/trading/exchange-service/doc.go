// Package exchangeservice contains the Bazaar trading books: fixed-price
// listings and English auctions.
//
// Money moves through the escrow domain service (rail-agnostic over native
// currency and fungible tokens) and item ownership moves through the
// collection's contract. Every operation that performs an external transfer
// runs behind the reentrancy guard and follows checks-effects-interactions
// ordering: the book record is invalidated before collaborators are called,
// so a reentrant call observes already-updated state.
package exchangeservice
