/*
Package vault implements keyless custody accounts.

A vault holds a balance of exactly one asset on behalf of a swap. Its address
is derived from the swap participants and the asset ticker using a bump that
places the derivation point off the ed25519 curve, so that no private key can
ever sign for it. The only way to move assets out of a vault is to present an
authority proof: the seed material and bumps that reproduce both the swap
authority address and the vault address recorded when the vault was opened.
*/
package vault
