package wizard

// Version is the module version, overridable at build time with
// -ldflags "-X github.com/marcosfrias28/brymar-sub012.Version=v1.2.3".
var Version = "dev"
