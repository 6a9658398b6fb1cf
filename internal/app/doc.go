// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the discover-filter-render lifecycle,
// decoupled from any specific entrypoint like a CLI.
package app
