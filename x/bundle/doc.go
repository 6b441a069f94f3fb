/*
Package bundle implements bundled transactions.

A bundle holds an ordered list of messages that are processed one after
another within a single transaction. The bundle succeeds only if every
message succeeds. On any failure all changes done by the previous messages
of the bundle are discarded.

On CheckTx the messages are checked in order against the state left by the
previous ones, which are delivered on a scratch copy of the store and then
dropped. A bundle that would fail on DeliverTx is rejected from the mempool.

Authentication extensions (signatures, sequences) are applied once to the
wrapping transaction. Every bundled message sees the same signers.

Clients use bundles to submit both acceptance legs of a swap when the swap is
too large for a single accept operation.
*/
package bundle
