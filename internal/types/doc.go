/*
Package types defines the data structures shared by the client, the
navigator and the renderer.

# Overview

The types package holds plain values decoded from the database HTTP API:
  - ServerVersion and GAEVersion from the startup checks
  - DatabaseSummary for the database list
  - CollectionSummary (with the raw property document) for collection views
  - Document and DocumentBatch for paged collection content
  - QueryResult for ad-hoc AQL execution
  - GraphSummary and EdgeDefinition for named graphs
  - QueryHistoryEntry for the local query history store

# Field Tags

Types use JSON tags matching the ArangoDB wire names where they are decoded
directly, and YAML tags so the `ls` command can emit them as YAML.

# Type Safety

Values are produced on bridge goroutines and handed to the event loop by
value or by a pointer that the producer no longer touches. They are never
mutated after decoding.
*/
package types
