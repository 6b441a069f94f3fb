/*
Package x contains helpers shared by all extensions.

Every subpackage implements one part of the swap protocol: signature
verification, asset accounts, participant identities, keyless vaults, the
swap engine itself and bundled execution of several messages.
*/
package x
