// Package collectionservice contains the Bazaar collection registry and item
// minter.
//
// Collections are append-only: each one is backed by its own item-ownership
// contract deployed through the factory port. Token ids are marketplace-global
// and strictly increasing so the trading books can key listings and auctions
// by a single flat identifier.
package collectionservice
