/*
Package observability turns walkthrough lifecycle events into metrics and logs.

Both Metrics.Hooks and LoggingHooks return domain.LifecycleHooks, so they can be
merged and passed to labtour.WithLifecycleHooks.
*/
package observability
