// Package builder turns a node of the run into a task with every input
// resolved to a concrete value.
//
// # Why Builder Exists
//
// Node functions never see links. The builder replaces each link input
// `["5", 0]` with slot 0 of node 5's recorded outputs, so handlers receive
// plain values and can be tested without a graph.
//
// # Responsibilities
//
//   - **Link Resolution:** Querying the graph for the outputs of completed producers
//   - **Raw Links:** Passing inputs declared as raw links through as prompt.Link
//   - **Error Handling:** Failing when a producer has no recorded output
//
// # Relationship with Other Components
//
//   - **Graph:** Builder queries graph to retrieve producer outputs
//   - **Executor:** Calls Build() for each ready node before execution
//   - **Registry:** Supplies the node definition that names raw-link inputs
package builder
