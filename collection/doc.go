// Package collection provides typed collections over a flat [kv.Store].
//
// A collection is declared once, typically as a package-level variable, with a
// namespace that distinguishes it from every other collection in the same
// store. Declarations hold no state. Every operation is given the store it
// operates on.
//
//	var (
//		config  = collection.NewItem("config", codec.JSON[Config]())
//		balance = collection.NewMap("balance", keys.String, codec.Uint64)
//		queue   = collection.NewDequeStore("queue", codec.CBOR[Job]())
//	)
//
// Collections perform no locking. Concurrent read-modify-write operations,
// such as Update() or PushBack(), on the same collection must be serialized
// by the caller.
package collection
