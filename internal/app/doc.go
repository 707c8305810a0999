// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the compile lifecycle (load the owner
// entity, discover action scripts, compile them and render the result),
// decoupled from any specific entrypoint like a CLI.
package app
