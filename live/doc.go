// Package live instantiates runtime attachments from attachment
// configurations and keeps them in step with the tracker.
//
// A [Registry] holds any number of independent hierarchies. Spawning a
// hierarchy creates one [Attachment] for every configuration in a subtree;
// a model configuration whose name is in the registry's model library also
// gets the library model mixed in below it. The same configuration can so
// back several attachments at once, and the registry, as an
// attach.LiveFinder, hands all of them to Config.RunAction:
//
//	reg := live.NewRegistry(logger)
//	tr.SetLiveFinder(reg)
//	tr.StartTracking(reg.Listener())
//	reg.Spawn("north", tr.Root())
//	reg.Spawn("south", tr.Root())
//
// Like the attachment tree, a registry must only be used from the control
// goroutine.
package live
