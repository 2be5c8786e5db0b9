package registry

// Record is implemented by every value the engine can hold.
// RecordKind returns the kind name the value is catalogued under.
type Record interface {
	RecordKind() string
}

// Identifiable is a record that carries its own identifier and knows which of
// its nested values are records in their own right.
type Identifiable interface {
	Record

	// Identifier returns the stable identifier. An update never changes it.
	Identifier() string

	// RegisterInto enqueues a register intent for the value itself and then,
	// recursively, for every nested identifiable value.
	RegisterInto(r Registrar)
}

// Registrar receives register intents during a registration walk.
type Registrar interface {
	Enqueue(id string, value Record)
}

// Patchable constrains *T to apply patches of type P in place.
type Patchable[T, P any] interface {
	*T
	Record
	ApplyPatch(p P)
}
