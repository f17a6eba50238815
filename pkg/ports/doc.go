/*
Package ports defines the driven ports (interfaces) of the backstack engine.

These interfaces decouple the navigation core from the host that embeds it, allowing
the same reducer and route table to sit behind a mobile shell, an HTTP API or a CLI.

# Key Interfaces

  - Dispatcher: Delivers Actions to the reducer, one at a time.
  - ConfigLoader: Produces the routes configuration (from memory, files, ...).
  - StateStore: Holds the live NavigationState of each session for the duration of the process.
  - DistributedLocker: Serializes dispatch for a session across replicas.
*/
package ports
