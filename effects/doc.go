// Package effects is the declarative half of updraft's effect system.
//
// Updraft follows the Elm architecture: a component's update function is
// pure and returns a description of the side effects it wants performed
// instead of performing them. That description is an Effects bundle.
//
// # Local vs external
//
// A bundle carries two channels of deferred tasks. Local tasks resolve
// inside the component that issued them and feed messages back into its
// own update loop. External tasks are relayed, unresolved, to whatever
// parent component embeds this one, expressed in the parent's message
// vocabulary. Keeping the channels separate is what lets nested
// components compose without knowing each other's message types:
//
//	eff := effects.WithLocal[childMsg, parentMsg](Tick)
//	up := effects.Localize[childMsg, parentMsg, grandparentMsg](eff, wrapChild)
//
// # Composition
//
// Batch folds the bundles of several unrelated operations into one, so an
// update function always returns a single coherent bundle. MapLocal and
// MapExternal rewrite a channel's message type without re-running any
// work.
//
// # Execution hints
//
// Every bundle embeds a Modifier: whether a redraw should follow its
// dispatch and whether the round should be measured. Hints merge
// monotonically under batching, so one effect asking for a render is
// enough for the whole batch to render.
//
// Execution itself lives in the command package: a bundle whose external
// channel is empty converts into a Command bound to a running program.
package effects
