/*
Package ports defines the driven ports (interfaces) of graft.

These interfaces decouple the resolution core from where modules live and from
the transports exposing it, so the same loader and processor work against a
registry, the file system, a loam vault or Redis.

# Key Interfaces

  - Host: resolves a reference name and loads the value exported at its location.
  - Converter: transforms scalar leaves during the process phase.
  - Resolver: the resolution entry point consumed by HTTP and MCP adapters.
*/
package ports
