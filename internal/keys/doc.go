// Package keys names the well-known attachment keys and the tag kind each
// one is expected to hold.
//
// The built-in set comes from Default. Projects that store extra keys can
// extend a Registry from YAML or CUE files:
//
//	keys:
//	  - name: charge_level
//	    kind: int
//	    description: Stored charge in FE.
//
// or, in CUE:
//
//	keys: charge_level: {kind: "int", description: "Stored charge in FE."}
//
// Registry.Check compares a root compound against the registry and reports
// unknown keys and entries whose stored kind differs from the declared one.
// Reads through the attachment store never consult the registry; it is a
// diagnostic aid for tooling.
package keys
