/*
Package observability provides tools for monitoring graft resolutions.

It turns domain.LifecycleHooks into Prometheus metrics and structured log
records, so any Resolver can be instrumented with graft.WithLifecycleHooks.
*/
package observability
