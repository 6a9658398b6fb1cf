// Package config defines the format-agnostic configuration model for the
// application, along with the Loader interface for reading it from a file.
//
// Every field of the model is optional. A nil field means "not set in the
// file", so the command line and built-in defaults can fill the gap.
// Concrete loaders, such as the HCL one, live in separate packages.
package config
