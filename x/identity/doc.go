/*
Package identity implements the identity store.

Every participant of a swap must register an identity entry first. The entry
records the role the participant currently plays in a swap and the
counterparty of that swap. A participant can be engaged in at most one swap
at a time. Entries are mutated only by the swap engine.
*/
package identity
