/*
Package ports defines the driven ports (interfaces) of the lienzo engine.

The engine itself is pure; these interfaces describe the persistence
collaborator it is wired to by the Engine facade, so drafts and published
versions can live in memory, on disk, in Redis or in PostgreSQL.

# Key Interfaces

  - DraftStore: the current editable canvas of a document, updated optimistically.
  - VersionStore: immutable published versions of a document.
  - DistributedLocker: serializes publishes of the same document across replicas.
*/
package ports
