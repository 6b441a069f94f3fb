/*
Package pairswap defines interfaces used throughout the swap application, such as:
storage, transactions, handlers, addresses and conditions.

It also contains the derivation of keyless addresses. A derived address has no
private key behind it. The only way to act on its behalf is to reproduce the
exact seeds and discriminant ("bump") that produced it, which is what the vault
and swap extensions do when moving escrowed assets.

Look into this package to get a brief overview of design decisions made around
interfaces and extension building blocks.
*/
package pairswap
