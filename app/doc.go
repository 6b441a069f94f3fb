/*
Package app contains the building blocks of an ABCI application: a router
dispatching messages to handlers, a chain of decorators wrapped around it,
and the StoreApp/BaseApp pair that connects the resulting handler to the
tendermint ABCI interface and to a persistent commit store.

Concrete applications, such as the swap daemon, wire extensions into these
blocks.
*/
package app
