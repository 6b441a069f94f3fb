/*
Package bank is the asset ledger of the application.

It keeps one account per owner and asset ticker, and provides the transfer
service used by the swap protocol. Every movement must be authorized by the
source account owner, either with a signature or with a granted derived
condition. Accounts opened explicitly hold a storage deposit (rent) that is
returned when the account is closed.
*/
package bank
