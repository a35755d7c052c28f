/*
Package domain contains the core models shared by the graft loader and processor.

It defines the configuration tree, the modules attached to it and the errors and
events surfaced while resolving it. This package is kept pure and free of I/O so
adapters (file system, vaults, Redis) and the resolution core can depend on it
without depending on each other.

# Key Entities

  - Node: a configuration node, a tagged variant of Scalar, Sequence or Mapping.
    Mappings carry the reserved keywords (require, options, module) as typed slots.
  - Module: the value a host returned for a reference, plus the loaded copy of
    that value when the reference names a structured configuration file.
  - LoadError: an unresolvable reference, with enough context to fix the config.
  - LifecycleHooks: callbacks for observability (module loads, invocations).
*/
package domain
