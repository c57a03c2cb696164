/*
Package domain contains the core domain models of the labtour walkthrough engine.

It defines the immutable scene catalog, the per-session walkthrough state and the
typed vocabulary of the virtual lab (scene kinds and user choices). The package is
kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Scene: One step of the guided walkthrough (name, title, description, icon).
  - Catalog: The ordered, non-empty, immutable sequence of scenes.
  - State: The runtime snapshot of a session (current index, global state, history).
  - SceneKind: Enumerated identity of the known lab scenes, used for panel dispatch.
  - StateDiff: A partial update between two states, streamed to clients.
*/
package domain
