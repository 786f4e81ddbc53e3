// Package model defines the read-only field descriptors a form is built from.
// A Field names its key, input type, optional choice list and validation rule,
// plus the conditional predicates (show/hide for every field, addable and
// deletable for repeatable groups). Conditional values use Dynamic, a tagged
// union of a static value and a function of form state, so call sites resolve
// them uniformly without special-casing functions. Repeatable groups nest
// exactly one level: their Fields are plain inputs applied to every entry.
// Placeholder, Hints and Custom are presentation parameters carried through
// verbatim.
package model
