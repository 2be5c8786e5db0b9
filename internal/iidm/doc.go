// Package iidm is the record catalog for IIDM electrical network documents.
//
// Every equipment type is a plain struct with camelCase JSON field names and
// a matching sparse patch type. Identifiable kinds (substations, lines,
// generators and so on) carry a string identifier and walk their nested
// identifiable values when registered, so uploading one Network fills the
// store with every equipment it contains.
//
// Value kinds (current limits, tap changers, load models and the like) have
// no identifier of their own. They live inside their parent record and can
// only be stored on their own under an identifier chosen by the caller.
//
// Usage:
//
//	catalog, err := iidm.NewCatalog()
//	if err != nil {
//	    return err
//	}
//	engine, err := registry.NewEngine(catalog, nil)
//	if err != nil {
//	    return err
//	}
//
//	network, err := iidm.DecodeNetwork(file)
//	if err != nil {
//	    return err
//	}
//	ids, err := engine.Register(ctx, network)
package iidm
