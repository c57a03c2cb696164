package labtour

// Version is the release of the module. It is overridden at build time with
// -ldflags "-X github.com/aretw0/labtour.Version=v1.2.3".
var Version = "dev"
