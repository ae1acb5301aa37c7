// Package models defines the core domain types for SplitApp.
//
// The central record is the Expense: an append-only entry describing who
// paid how much for whom. A Settlement is the same record shape with a
// single split and the Settled flag set. Balances are never stored; they
// are derived on demand by the ledger package from the full expense log.
//
// Relationships use ID strings rather than pointers so records stay flat
// and serializable. Group membership is the only post-creation mutable
// relation besides notification status.
package models
