/*
Package ports defines the driven ports (interfaces) of the labtour engine.

These interfaces decouple the walkthrough core from external implementations,
allowing the engine to work with various catalog sources and storage backends.

# Key Interfaces

  - CatalogLoader: Produces the ordered scene catalog (e.g. from YAML, Loam or memory).
  - StateStore: Persists and loads walkthrough session State.
  - DistributedLocker: Provides distributed locking for concurrent session access.
*/
package ports
