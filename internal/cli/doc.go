// Package cli implements the plantdash command-line interface.
//
// Commands are cobra.Command values registered on rootCmd in their own
// files. Each command resolves its inputs through loadApp, which merges
// the config file, environment and global flags, then loads the catalog:
//
//	plantdash                  - interactive dashboard (same as 'dashboard')
//	plantdash dashboard        - interactive dashboard
//	plantdash catalog          - list groups, widgets and metrics
//	plantdash validate <file>  - check a catalog document
//	plantdash history [metric] - print a metric's series for a window
//	plantdash serve            - headless simulation with HTTP API and metrics
//	plantdash init             - write a starter .plantdash.yaml
//	plantdash version          - print build information
//
// # Flag Handling
//
// Global flags (--config, --catalog, --seed, --interval, --no-color,
// --debug) are persistent on the root command. Flags win over config
// values, which win over built-in defaults.
//
// # Machine Output
//
// Commands with --json wrap their output in JSONEnvelope so scripts get
// the same {success, data, error} shape on success and failure.
package cli
