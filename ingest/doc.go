// Package ingest loads documents into a backend store.
//
// The Pipeline type embeds documents of vector-scored kinds before
// storing them: embedding input is rendered from each document's
// full-text searchable fields, batches fan out on a worker pool, and
// vectors are unit-normalized so dot-product similarity behaves as
// cosine. Documents of lexically scored kinds pass through untouched.
package ingest
