// Package models defines the core domain models for splitfair.
//
// # Models
//
//   - Group: a shared group of members identified by email
//   - Expense: a recorded expense with payer, participants and split type
//   - BalanceEntry: one member's net position in a group's summary
//   - ExpenseRequest: the wire payload for creating an expense
//
// Members are identified by email strings throughout; display names are
// optional and resolved with a fallback to the email (see the DisplayName
// methods). The JSON tags on these types are the load-bearing contract
// with the expense store — field names must not change.
//
// # Sign convention
//
// BalanceEntry.Balance is positive when the member owes money to the group
// and negative when the member is owed money. A settled group reports all
// balances at zero.
package models
