package backstack

// Version is the release of the module. Overridden at link time with
// -ldflags "-X github.com/aretw0/backstack.Version=...".
var Version = "0.1.0-dev"
