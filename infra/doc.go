// Package infra contains technical adapters such as the SQLite store,
// metrics exporters and the narration client. These packages should depend
// only on the interfaces defined in the core packages.
package infra
