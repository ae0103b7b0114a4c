// Package dag is a small, concurrency-safe directed graph used to reject
// prompts that cannot be executed: prompts with links to missing producers
// and prompts whose links form a cycle.
package dag
