package version

// Version is the current version of csv2rds.
// Can be overridden at build time with -ldflags "-X ...version.Version=..."
var Version = "0.1.0"

// Name is the application name.
const Name = "csv2rds"

// Description is a short description of the application.
const Description = "Validated chunked CSV to RDS bulk loader"
