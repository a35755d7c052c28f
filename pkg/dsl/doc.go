/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing graft configurations.

It allows developers to define configuration trees and module sets using a fluent builder pattern
instead of relying on external YAML or JSON files. This is particularly useful for tests, embedded
scenarios and configurations generated at runtime.

Example usage:

	package main

	import (
		"github.com/aretw0/graft"
		"github.com/aretw0/graft/pkg/dsl"
	)

	func main() {
		b := dsl.New()
		b.Add("server", newServer)
		b.Config("defaults.json").Set("retries", 3)

		host, err := b.Build()
		// ... pass host to graft.New(graft.WithHost(host))

		cfg := dsl.Map().
			Set("http", dsl.Require("server").Options(dsl.Map().Set("port", 8080))).
			Set("policy", dsl.Require("defaults.json"))

		// cfg.Build() is the raw configuration to resolve.
	}
*/
package dsl
