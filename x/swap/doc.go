/*
Package swap implements the two party swap protocol.

An offeror creates a swap with an offeree, escrows one or more assets in
keyless vaults and lists the assets expected in return. Initiating the swap
freezes its terms and engages both participants. The offeror may cancel, which
returns the escrow, or the offeree may accept, which moves the escrow to the
offeree and the offeree assets to the offeror.

Acceptance is made of two legs. Leg B moves the offeree assets to the
offeror, leg A releases the escrow to the offeree. When the swap references
more resources than a single operation may touch, the legs must be submitted
as separate messages inside one bundle. A swap left with only one leg applied
is a partial execution, which is detected and reported by the Reconciler but
never repaired.
*/
package swap
